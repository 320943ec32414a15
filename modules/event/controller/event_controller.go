package controller

import (
	"net/http"
	"time"

	"hub-crm-api/core/controller"
	"hub-crm-api/core/errors"
	"hub-crm-api/modules/event/dto"
	"hub-crm-api/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event and occurrence HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// CreateEvent handles POST /hub/events
func (c *EventController) CreateEvent(ctx echo.Context) error {
	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// GetEvent handles GET /hub/events/:id
func (c *EventController) GetEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListEvents handles GET /hub/events
func (c *EventController) ListEvents(ctx echo.Context) error {
	events, appErr := c.EventService.ListEvents(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, events, "Success")
}

// ListPublicEvents handles GET /public/events
func (c *EventController) ListPublicEvents(ctx echo.Context) error {
	events, appErr := c.EventService.ListPublicEvents(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, events, "Success")
}

// UpdateEvent handles PUT /hub/events/:id
func (c *EventController) UpdateEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.UpdateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	event, appErr := c.EventService.UpdateEvent(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

// DeleteEvent handles DELETE /hub/events/:id
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// AddOccurrences handles POST /hub/events/:id/occurrences
func (c *EventController) AddOccurrences(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CreateOccurrenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	occurrences, appErr := c.EventService.AddOccurrences(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, occurrences, "Occurrences created successfully")
}

// UpdateOccurrence handles PUT /hub/occurrences/:id
func (c *EventController) UpdateOccurrence(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid occurrence ID")
	}

	var req dto.UpdateOccurrenceRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	occ, appErr := c.EventService.UpdateOccurrence(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, occ, "Occurrence updated successfully")
}

// DeleteOccurrence handles DELETE /hub/occurrences/:id
func (c *EventController) DeleteOccurrence(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid occurrence ID")
	}

	if appErr := c.EventService.DeleteOccurrence(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Occurrence deleted successfully")
}

// Calendar handles GET /hub/events/calendar?from=...&to=...
func (c *EventController) Calendar(ctx echo.Context) error {
	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid from date")
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid to date")
	}

	occurrences, appErr := c.EventService.CalendarOccurrences(ctx.Request().Context(), from, to)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, occurrences, "Success")
}

// ICSFeed handles GET /public/events/:slug/ics
func (c *EventController) ICSFeed(ctx echo.Context) error {
	filename, content, appErr := c.EventService.BuildICSBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	ctx.Response().Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}
