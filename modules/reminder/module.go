package reminder

import (
	"hub-crm-api/core/middleware"
	contactRepository "hub-crm-api/modules/contact/repository"
	eventRepository "hub-crm-api/modules/event/repository"
	notifService "hub-crm-api/modules/notification/service"
	"hub-crm-api/modules/reminder/controller"
	"hub-crm-api/modules/reminder/router"
	"hub-crm-api/modules/reminder/service"
	rotaRepository "hub-crm-api/modules/rota/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the reminder module and registers routes
func Init(e *echo.Echo, mw *middleware.Middleware,
	rotas *rotaRepository.RotaRepository, events *eventRepository.EventRepository,
	contacts *contactRepository.ContactRepository, notifier notifService.Dispatcher) *service.ReminderService {

	svc := service.NewReminderService(rotas, events, contacts, notifier)
	ctrl := controller.NewReminderController(svc)

	router.NewReminderRouter(ctrl).Setup(e, mw)
	return svc
}
