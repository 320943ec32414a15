package router

import (
	"hub-crm-api/modules/signup/controller"

	"github.com/labstack/echo/v4"
)

// SignupRouter handles public signup routes; none require authentication.
type SignupRouter struct {
	SignupController *controller.SignupController
}

func NewSignupRouter(ctrl *controller.SignupController) *SignupRouter {
	return &SignupRouter{SignupController: ctrl}
}

func (r *SignupRouter) Setup(e *echo.Echo) {
	public := e.Group("/api/v1/public/signup")
	public.GET("/rotas", r.SignupController.ListPublicRotas)
	public.POST("/rotas", r.SignupController.SubmitSignup)
	public.GET("/rota/:token", r.SignupController.GetTokenRota)
	public.POST("/rota/:token", r.SignupController.SubmitTokenSignup)
}
