package middleware

import (
	"context"

	"gallery-storefront/internal/apperror"

	"github.com/labstack/echo/v4"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, clientID string) (bool, error)
}

// RequireAdmin lets only admin sessions through: 401 without a session, 403
// for a regular user.
func RequireAdmin(checker AdminChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, err := checker.IsAdmin(c.Request().Context(), ClientIDFrom(c))
			if err != nil {
				return err
			}
			if !isAdmin {
				return apperror.Forbidden("admin access required")
			}
			return next(c)
		}
	}
}
