package router

import (
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/reminder/controller"

	"github.com/labstack/echo/v4"
)

// ReminderRouter handles reminder routes
type ReminderRouter struct {
	ReminderController *controller.ReminderController
}

func NewReminderRouter(ctrl *controller.ReminderController) *ReminderRouter {
	return &ReminderRouter{ReminderController: ctrl}
}

func (r *ReminderRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	hub := e.Group("/api/v1/hub/reminders", mw.AuthMiddleware())
	hub.GET("/upcoming", r.ReminderController.GetUpcoming)
	hub.POST("/sweep", r.ReminderController.Sweep)
}
