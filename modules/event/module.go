package event

import (
	"hub-crm-api/core/database"
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/event/controller"
	"hub-crm-api/modules/event/repository"
	"hub-crm-api/modules/event/router"
	"hub-crm-api/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) (*service.EventService, *repository.EventRepository) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
	return svc, repo
}
