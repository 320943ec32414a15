package middleware

import (
	"hub-crm-api/core/cache"
	"hub-crm-api/core/config"
	"hub-crm-api/core/constants"
	"hub-crm-api/core/controller"
	"hub-crm-api/core/errors"
	"hub-crm-api/core/logger"
	"hub-crm-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the bearer token on hub routes and stores the
// parsed claims on the request context. Token issuing lives outside this
// service; only validation happens here.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, appErr := utils.GetTokenFromHeader(c.Request().Header.Get("Authorization"))
			if appErr != nil {
				return controller.NewErrorResponse(401, appErr.Code, appErr.Message)
			}

			cfg, ok := config.GetSafe()
			if !ok {
				logger.Error("Middleware:AuthMiddleware:ConfigNotInitialized")
				return controller.NewErrorResponse(500, errors.ErrInternalServer, "Server configuration error")
			}

			claims, appErr := utils.ValidateAndParseToken(token, cfg.Auth.JWTSecret)
			if appErr != nil {
				return controller.NewErrorResponse(401, appErr.Code, appErr.Message)
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid token scope")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:BlacklistCheck:Error", "error", err)
				} else if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Token has been revoked")
				}
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
