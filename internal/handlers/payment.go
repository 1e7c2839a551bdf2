package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/forgebyte/storefront/internal/logging"
	"github.com/forgebyte/storefront/internal/payment"
)

// IntentCreator is the slice of the gateway client this handler needs.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (*payment.Intent, error)
}

type PaymentHandler struct {
	Gateway  IntentCreator
	Currency string
	Validate *validator.Validate
}

type createIntentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// CreateIntent forwards a charge-intent request to the gateway and hands
// the client secret back. No order state changes here; confirmation is a
// separate call once the charge went through.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_intent")

	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_intent_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("create_intent_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "price must be > 0")
	}

	amount := int64(math.Round(req.Price * 100))
	intent, err := h.Gateway.CreateIntent(ctx, amount, h.Currency)
	if err != nil {
		if errors.Is(err, payment.ErrGateway) {
			l.Error("create_intent_error", "status", 502, "reason", "gateway", "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
		}
		l.Error("create_intent_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("create_intent_success", "amount", amount)
	return c.JSON(http.StatusOK, echo.Map{"clientSecret": intent.ClientSecret})
}
