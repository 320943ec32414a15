package controller

import (
	"hub-crm-api/core/controller"
	"hub-crm-api/core/errors"
	"hub-crm-api/core/params"
	"hub-crm-api/modules/rota/dto"
	"hub-crm-api/modules/rota/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RotaController handles rota HTTP requests
type RotaController struct {
	controller.BaseController
	RotaService service.RotaServiceInterface
}

func NewRotaController(svc service.RotaServiceInterface) *RotaController {
	return &RotaController{
		BaseController: controller.NewBaseController(),
		RotaService:    svc,
	}
}

// CreateRota handles POST /hub/rotas
func (c *RotaController) CreateRota(ctx echo.Context) error {
	var req dto.CreateRotaRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RotaService.CreateRota(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Rota created successfully")
}

// ListRotas handles GET /hub/rotas
func (c *RotaController) ListRotas(ctx echo.Context) error {
	queryParams := params.NewQueryParams(ctx)

	result, appErr := c.RotaService.ListRotas(ctx.Request().Context(), queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetRota handles GET /hub/rotas/:id
func (c *RotaController) GetRota(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rota ID")
	}

	result, appErr := c.RotaService.GetRota(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateRota handles PUT /hub/rotas/:id
func (c *RotaController) UpdateRota(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rota ID")
	}

	var req dto.UpdateRotaRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RotaService.UpdateRota(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Rota updated successfully")
}

// DeleteRota handles DELETE /hub/rotas/:id
func (c *RotaController) DeleteRota(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rota ID")
	}

	if appErr := c.RotaService.DeleteRota(ctx.Request().Context(), id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Rota deleted successfully")
}

// AddAssignees handles POST /hub/rotas/:id/assignees
func (c *RotaController) AddAssignees(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rota ID")
	}

	var req dto.AddAssigneesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RotaService.AddAssignees(ctx.Request().Context(), id, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignees added successfully")
}

// RemoveAssignee handles DELETE /hub/rotas/:id/assignees
func (c *RotaController) RemoveAssignee(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rota ID")
	}

	var req dto.RemoveAssigneeRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.RotaService.RemoveAssignee(ctx.Request().Context(), id, req.Index)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignee removed successfully")
}

// SignupLink handles GET /hub/rotas/:id/signup-link
func (c *RotaController) SignupLink(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid rota ID")
	}

	link, appErr := c.RotaService.EnsureSignupLink(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, map[string]string{"signup_link": link}, "Success")
}
