package signup

import (
	"hub-crm-api/core/cache"
	eventRepository "hub-crm-api/modules/event/repository"
	rotaRepository "hub-crm-api/modules/rota/repository"
	"hub-crm-api/modules/signup/controller"
	"hub-crm-api/modules/signup/router"
	"hub-crm-api/modules/signup/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the public signup module and registers routes
func Init(e *echo.Echo, rotas *rotaRepository.RotaRepository, events *eventRepository.EventRepository, limiter cache.Cache) *service.SignupService {
	svc := service.NewSignupService(rotas, events, limiter)
	ctrl := controller.NewSignupController(svc)

	router.NewSignupRouter(ctrl).Setup(e)
	return svc
}
