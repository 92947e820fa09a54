package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/checkin-points/internal/auth"
	"github.com/shinyyama/checkin-points/internal/handler"
	"github.com/shinyyama/checkin-points/internal/service"
)

type AuthMiddleware struct {
	svc service.AuthService
}

func NewAuthMiddleware(svc service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{svc: svc}
}

// RequireAuth verifies the bearer token and attaches the caller identity to the
// request context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized", "missing bearer token"))
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		id, err := m.svc.Authenticate(c.Request().Context(), tokenStr)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token expired"
			}
			return c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid_token", msg))
		}
		c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
		c.Set("uid", id.UserID)
		return next(c)
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAdmin(c.Request().Context()) {
			return c.JSON(http.StatusForbidden, handler.NewErrorResponse("forbidden", "admin role required"))
		}
		return next(c)
	}
}
