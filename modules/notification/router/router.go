package router

import (
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(ctrl *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{NotificationController: ctrl}
}

func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	group := e.Group("/api/v1/hub/notifications", mw.AuthMiddleware())
	group.GET("", r.NotificationController.GetMyNotifications)
	group.GET("/unread-count", r.NotificationController.CountUnread)
	group.PUT("/mark-read", r.NotificationController.MarkAsRead)
	group.PUT("/mark-all-read", r.NotificationController.MarkAllAsRead)
}
