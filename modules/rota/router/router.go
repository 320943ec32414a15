package router

import (
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/rota/controller"

	"github.com/labstack/echo/v4"
)

// RotaRouter handles rota routes
type RotaRouter struct {
	RotaController *controller.RotaController
}

func NewRotaRouter(ctrl *controller.RotaController) *RotaRouter {
	return &RotaRouter{RotaController: ctrl}
}

func (r *RotaRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	hub := e.Group("/api/v1/hub/rotas", mw.AuthMiddleware())
	hub.POST("", r.RotaController.CreateRota)
	hub.GET("", r.RotaController.ListRotas)
	hub.GET("/:id", r.RotaController.GetRota)
	hub.PUT("/:id", r.RotaController.UpdateRota)
	hub.DELETE("/:id", r.RotaController.DeleteRota)
	hub.POST("/:id/assignees", r.RotaController.AddAssignees)
	hub.DELETE("/:id/assignees", r.RotaController.RemoveAssignee)
	hub.GET("/:id/signup-link", r.RotaController.SignupLink)
}
