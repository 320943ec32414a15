package notification

import (
	"hub-crm-api/core/database"
	"hub-crm-api/core/middleware"
	"hub-crm-api/modules/notification/controller"
	"hub-crm-api/modules/notification/repository"
	"hub-crm-api/modules/notification/router"
	"hub-crm-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Setup(e, mw)
	return svc
}
