package middleware

import (
	"errors"
	"net/http"
	"strings"

	"summit-scheduler/core/constants"
	"summit-scheduler/core/controller"
	"summit-scheduler/core/entity"
	appErrors "summit-scheduler/core/errors"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtSecret string
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// AuthMiddleware verifies the bearer token and stores its claims on the
// context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrMissingAuthorizationHeader, "Authorization header is required")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ParseToken(m.jwtSecret, strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return controller.NewErrorResponse(http.StatusUnauthorized,
						appErrors.ErrTokenExpired, "Token has expired")
				}
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrUnauthorized, "Invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequireRole must run after AuthMiddleware.
func (m *Middleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
			if !ok || claims == nil {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					appErrors.ErrUnauthorized, "User not authenticated")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return controller.NewErrorResponse(http.StatusForbidden,
				appErrors.ErrForbidden, "Role "+string(claims.Role)+" is not allowed here")
		}
	}
}
