package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"photoshare/internal/auth"
	"photoshare/internal/model"
	"photoshare/internal/repository"
)

// identityKey is the context key under which Authenticate stores the
// resolved user.
const identityKey = "identity"

// Authenticate returns an Echo middleware that validates a Bearer
// token, resolves its subject to a user row and injects the user into
// the request context. Resolution fails closed: a token whose subject
// no longer matches a user yields the same 401 as a tampered or
// expired token, so callers cannot probe which accounts exist. A
// resolved but deactivated account is rejected with 403 regardless of
// its roles.
func Authenticate(tokens *auth.TokenService, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			subject, err := tokens.Validate(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByEmail(ctx, subject)
			if err != nil {
				// Same response as a bad token on purpose.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "user inactive"})
			}

			c.Set(identityKey, u)
			return next(c)
		}
	}
}

// Identity returns the authenticated user stored by Authenticate. The
// second return is false when the route was not wrapped by it.
func Identity(c echo.Context) (model.User, bool) {
	u, ok := c.Get(identityKey).(model.User)
	return u, ok
}
