package controller

import (
	"hub-crm-api/core/controller"
	"hub-crm-api/core/errors"
	"hub-crm-api/core/params"
	"hub-crm-api/modules/contact/entity"
	"hub-crm-api/modules/contact/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ContactController struct {
	controller.BaseController
	ContactService service.ContactServiceInterface
}

func NewContactController(svc service.ContactServiceInterface) *ContactController {
	return &ContactController{
		BaseController: controller.NewBaseController(),
		ContactService: svc,
	}
}

// CreateContact handles POST /hub/contacts
func (c *ContactController) CreateContact(ctx echo.Context) error {
	var req entity.Contact
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	created, appErr := c.ContactService.Create(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, created, "Contact created successfully")
}

// GetContact handles GET /hub/contacts/:id
func (c *ContactController) GetContact(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid contact ID")
	}

	contact, appErr := c.ContactService.GetByID(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, contact, "Success")
}

// SearchContacts handles GET /hub/contacts
func (c *ContactController) SearchContacts(ctx echo.Context) error {
	page, appErr := c.ContactService.Search(ctx.Request().Context(), params.NewQueryParams(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, page, "Success")
}
