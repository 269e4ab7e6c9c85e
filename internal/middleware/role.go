package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"photoshare/internal/auth"
)

// RequireRole returns a middleware that allows the request through
// only when the authenticated user's role set intersects the given
// roles. It must run after Authenticate. The Administrator role is not
// implicitly superior here; endpoints that admit administrators list
// the role explicitly.
func RequireRole(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := Identity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			switch auth.Authorize(u.IsActive, u.Roles, roles...) {
			case nil:
				return next(c)
			case auth.ErrUserInactive:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "user inactive"})
			default:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
		}
	}
}
