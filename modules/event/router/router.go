package router

import (
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(ctrl *controller.EventController) *EventRouter {
	return &EventRouter{EventController: ctrl}
}

func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// Public event listing and calendar feeds
	public := v1.Group("/public/events")
	public.GET("", r.EventController.ListPublicEvents)
	public.GET("/:slug/ics", r.EventController.ICSFeed)

	// Hub admin routes (all protected)
	hub := v1.Group("/hub", mw.AuthMiddleware())
	hub.POST("/events", r.EventController.CreateEvent)
	hub.GET("/events", r.EventController.ListEvents)
	hub.GET("/events/calendar", r.EventController.Calendar)
	hub.GET("/events/:id", r.EventController.GetEvent)
	hub.PUT("/events/:id", r.EventController.UpdateEvent)
	hub.DELETE("/events/:id", r.EventController.DeleteEvent)
	hub.POST("/events/:id/occurrences", r.EventController.AddOccurrences)
	hub.PUT("/occurrences/:id", r.EventController.UpdateOccurrence)
	hub.DELETE("/occurrences/:id", r.EventController.DeleteOccurrence)
}
