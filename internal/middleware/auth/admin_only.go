package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/logging"
	"github.com/forgebyte/storefront/internal/models"
)

// AdminOnly must run after RequireAuth. It resolves the verified email to
// an account and lets only role=admin continue. An email with no account
// fails closed: a valid token proves identity, not authorization.
func AdminOnly(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "admin_only")

			email, ok := c.Get("email").(string)
			if !ok || email == "" {
				l.Warn("admin_check_failed", "status", 403, "reason", "no_verified_email")
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}

			var account models.Account
			if err := db.Where("email = ?", email).First(&account).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					l.Warn("admin_check_failed", "status", 403, "reason", "unknown_account", "email", email)
					return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
				}
				l.Error("admin_check_failed", "status", 500, "reason", "db_error", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			if account.Role != models.RoleAdmin {
				l.Warn("admin_check_failed", "status", 403, "reason", "not_admin", "email", email)
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}

			c.Set("role", account.Role)
			return next(c)
		}
	}
}
