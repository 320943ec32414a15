package contact

import (
	"hub-crm-api/core/database"
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/contact/controller"
	"hub-crm-api/modules/contact/repository"
	"hub-crm-api/modules/contact/router"
	"hub-crm-api/modules/contact/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the contact module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) (*service.ContactService, *repository.ContactRepository) {
	repo := repository.NewContactRepository(db)
	svc := service.NewContactService(repo)
	ctrl := controller.NewContactController(svc)
	rtr := router.NewContactRouter(ctrl)

	rtr.Setup(e, mw)
	return svc, repo
}
