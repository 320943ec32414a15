package controller

import (
	"strconv"

	"hub-crm-api/core/controller"
	"hub-crm-api/core/errors"
	"hub-crm-api/modules/reminder/service"

	"github.com/labstack/echo/v4"
)

type ReminderController struct {
	controller.BaseController
	reminderService service.ReminderServiceInterface
}

func NewReminderController(reminderService service.ReminderServiceInterface) *ReminderController {
	return &ReminderController{
		BaseController:  controller.NewBaseController(),
		reminderService: reminderService,
	}
}

func (c *ReminderController) daysAhead(ctx echo.Context) (int, error) {
	raw := ctx.QueryParam("days")
	if raw == "" {
		return service.DefaultDaysAhead, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, c.BadRequest(errors.ErrInvalidInput, "Days must be a non-negative number")
	}
	return days, nil
}

func (c *ReminderController) GetUpcoming(ctx echo.Context) error {
	days, err := c.daysAhead(ctx)
	if err != nil {
		return err
	}

	assignments, appErr := c.reminderService.FindUpcoming(ctx.Request().Context(), days)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, assignments, "Upcoming rota assignments retrieved successfully")
}

func (c *ReminderController) Sweep(ctx echo.Context) error {
	days, err := c.daysAhead(ctx)
	if err != nil {
		return err
	}

	summary, appErr := c.reminderService.Dispatch(ctx.Request().Context(), days)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, summary, "Reminder sweep completed")
}
