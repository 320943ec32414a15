package rota

import (
	"hub-crm-api/core/database"
	"hub-crm-api/core/middleware"
	contactRepository "hub-crm-api/modules/contact/repository"
	eventRepository "hub-crm-api/modules/event/repository"
	notifService "hub-crm-api/modules/notification/service"
	"hub-crm-api/modules/rota/controller"
	"hub-crm-api/modules/rota/repository"
	"hub-crm-api/modules/rota/router"
	"hub-crm-api/modules/rota/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the rota module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware,
	events *eventRepository.EventRepository, contacts *contactRepository.ContactRepository,
	notifier notifService.Dispatcher) (*service.RotaService, *repository.RotaRepository) {

	repo := repository.NewRotaRepository(db)
	svc := service.NewRotaService(repo, events, contacts, notifier)
	ctrl := controller.NewRotaController(svc)

	router.NewRotaRouter(ctrl).Setup(e, mw)
	return svc, repo
}
