package controller

import (
	"hub-crm-api/core/controller"
	"hub-crm-api/core/errors"
	"hub-crm-api/modules/signup/dto"
	"hub-crm-api/modules/signup/service"

	"github.com/labstack/echo/v4"
)

// SignupController handles public rota signup requests
type SignupController struct {
	controller.BaseController
	SignupService service.SignupServiceInterface
}

func NewSignupController(svc service.SignupServiceInterface) *SignupController {
	return &SignupController{
		BaseController: controller.NewBaseController(),
		SignupService:  svc,
	}
}

// ListPublicRotas handles GET /public/signup/rotas
func (c *SignupController) ListPublicRotas(ctx echo.Context) error {
	result, appErr := c.SignupService.ListPublicRotas(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// SubmitSignup handles POST /public/signup/rotas
func (c *SignupController) SubmitSignup(ctx echo.Context) error {
	var req dto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SignupService.SubmitSignup(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, result.Message)
}

// GetTokenRota handles GET /public/signup/rota/:token
func (c *SignupController) GetTokenRota(ctx echo.Context) error {
	result, appErr := c.SignupService.GetTokenRota(ctx.Request().Context(), ctx.Param("token"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// SubmitTokenSignup handles POST /public/signup/rota/:token
func (c *SignupController) SubmitTokenSignup(ctx echo.Context) error {
	var req dto.TokenSignupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.SignupService.SubmitTokenSignup(ctx.Request().Context(), ctx.Param("token"), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, result.Message)
}
