package router

import (
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/contact/controller"

	"github.com/labstack/echo/v4"
)

type ContactRouter struct {
	ContactController *controller.ContactController
}

func NewContactRouter(ctrl *controller.ContactController) *ContactRouter {
	return &ContactRouter{ContactController: ctrl}
}

func (r *ContactRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	hub := v1.Group("/hub/contacts", mw.AuthMiddleware())

	hub.POST("", r.ContactController.CreateContact)
	hub.GET("", r.ContactController.SearchContacts)
	hub.GET("/:id", r.ContactController.GetContact)
}
