package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/forgebyte/storefront/internal/logging"
	"github.com/forgebyte/storefront/internal/mykafka"
	"github.com/forgebyte/storefront/internal/service"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
	Validate *validator.Validate
}

type createOrderRequest struct {
	Email   string  `json:"email"   validate:"required,email"`
	Product string  `json:"product" validate:"required"`
	Price   float64 `json:"price"   validate:"gte=0"`
}

type confirmPaymentRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func orderID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid order id")
	}
	return uint(id), nil
}

func serviceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, req.Email, req.Product, req.Price)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return serviceError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"email":   order.Email,
	})

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Confirm records the completed charge and moves the order to Paid. The
// charge itself was made by the client against the gateway; we only learn
// the transaction id here.
func (h *OrderHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_confirm")

	id, err := orderID(c)
	if err != nil {
		l.Warn("confirm_order_error", "status", 400, "reason", "invalid_id")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("confirm_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("confirm_order_error", "status", 400, "reason", "validation", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "transactionId required")
	}

	order, err := h.Svc.ConfirmPayment(ctx, id, req.TransactionID)
	if err != nil {
		l.Warn("confirm_order_error", "order_id", id, "error", err)
		return serviceError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":          "order_paid",
		"orderID":       order.ID,
		"transactionID": order.TransactionID,
	})

	l.Info("confirm_order_success", "order_id", order.ID, "transaction_id", order.TransactionID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Ship(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_ship")

	id, err := orderID(c)
	if err != nil {
		l.Warn("ship_order_error", "status", 400, "reason", "invalid_id")
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.Svc.MarkShipped(ctx, id)
	if err != nil {
		l.Warn("ship_order_error", "order_id", id, "error", err)
		return serviceError(err)
	}

	h.publish(c, fmt.Sprint(order.ID), map[string]any{
		"type":       "order_shipped",
		"orderID":    order.ID,
		"shipped_by": fmt.Sprint(c.Get("email")),
	})

	l.Info("ship_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_list")

	orders, err := h.Svc.ListByEmail(ctx, c.QueryParam("email"))
	if err != nil {
		l.Warn("list_orders_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_delete")

	id, err := orderID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		l.Warn("delete_order_error", "order_id", id, "error", err)
		return serviceError(err)
	}

	h.publish(c, fmt.Sprint(id), map[string]any{
		"type":    "order_deleted",
		"orderID": id,
	})

	l.Info("delete_order_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
