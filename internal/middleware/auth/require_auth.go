package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/forgebyte/storefront/internal/logging"
	"github.com/forgebyte/storefront/internal/token"
)

// RequireAuth gates a route on a verified identity. It knows nothing about
// roles: a missing credential is 401, a credential that fails verification
// is 403, and on success the verified email lands in the echo context for
// downstream stages.
func RequireAuth(jwtSecret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "require_auth")

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				l.Warn("auth_failed", "status", 401, "reason", "missing_authorization_header")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			email, err := token.Verify(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if err != nil {
				l.Warn("auth_failed", "status", 403, "reason", "invalid_token", "error", err)
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			c.Set("email", email)
			return next(c)
		}
	}
}
