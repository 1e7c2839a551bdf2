package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/forgebyte/storefront/internal/hash"
	"github.com/forgebyte/storefront/internal/logging"
	"github.com/forgebyte/storefront/internal/models"
	"github.com/forgebyte/storefront/internal/mykafka"
	"github.com/forgebyte/storefront/internal/token"
)

type UserHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *mykafka.Producer
}

func (h *UserHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// Upsert creates or overwrites the profile for the email in the path and
// mints a session token for it. Role is never writable here: a fresh
// account starts as customer and an existing role survives any payload.
func (h *UserHandler) Upsert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_upsert")

	email := c.Param("email")
	if email == "" {
		l.Warn("upsert_error", "status", 400, "reason", "missing_email")
		return echo.NewHTTPError(http.StatusBadRequest, "email required")
	}

	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("upsert_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var account models.Account
	err := h.DB.Where("email = ?", email).First(&account).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.Account{Email: email, Role: models.RoleCustomer}
	default:
		l.Error("upsert_error", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	account.Name = req.Name
	account.Phone = req.Phone
	account.Address = req.Address
	if req.Password != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			l.Error("upsert_error", "status", 500, "reason", "cannot hash the password", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		account.PasswordHash = pwHash
	}

	if err := h.DB.Save(&account).Error; err != nil {
		l.Error("upsert_error", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	sessionToken, err := token.Issue(email, h.JWTSecret)
	if err != nil {
		l.Error("upsert_error", "status", 500, "reason", "cannot create token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	h.publish(c, email, map[string]any{
		"type":  "user_upserted",
		"email": email,
	})

	l.Info("upsert_success", "status", 200)
	return c.JSON(http.StatusOK, echo.Map{
		"result": account,
		"token":  sessionToken,
	})
}

// GrantAdmin promotes the target account. The route is admin-gated, so
// only a caller that already holds the role can hand it out; promoting an
// admin again is a no-op.
func (h *UserHandler) GrantAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_grant_admin")

	email := c.Param("email")

	var account models.Account
	if err := h.DB.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("grant_admin_failed", "status", 404, "reason", "account_not_found", "email", email)
			return echo.NewHTTPError(http.StatusNotFound, "account not found")
		}
		l.Error("grant_admin_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if account.Role != models.RoleAdmin {
		account.Role = models.RoleAdmin
		if err := h.DB.Save(&account).Error; err != nil {
			l.Error("grant_admin_failed", "status", 500, "reason", "db_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		h.publish(c, email, map[string]any{
			"type":       "admin_granted",
			"email":      email,
			"granted_by": fmt.Sprint(c.Get("email")),
		})
	}

	l.Info("grant_admin_success", "status", 200, "email", email)
	return c.JSON(http.StatusOK, echo.Map{"result": account})
}

func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_list")

	var accounts []models.Account
	if err := h.DB.Find(&accounts).Error; err != nil {
		l.Error("list_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, accounts)
}

// AdminCheck reports whether the given email holds the admin role. A
// missing account is simply not an admin.
func (h *UserHandler) AdminCheck(c echo.Context) error {
	email := c.Param("email")

	var account models.Account
	if err := h.DB.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"admin": false})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"admin": account.Role == models.RoleAdmin})
}
