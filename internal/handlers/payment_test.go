package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/forgebyte/storefront/internal/payment"
)

func TestCreateIntent(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var req struct {
			Amount         int64  `json:"amount"`
			Currency       string `json:"currency"`
			IdempotencyKey string `json:"idempotency_key"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.EqualValues(t, 1000, req.Amount)
		require.Equal(t, "usd", req.Currency)
		require.NotEmpty(t, req.IdempotencyKey)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":            "pi_123",
			"client_secret": "pi_123_secret",
		})
	}))
	defer gatewaySrv.Close()

	h := &PaymentHandler{
		Gateway:  payment.NewClient(gatewaySrv.URL, "sk_test"),
		Currency: "usd",
		Validate: validator.New(),
	}

	c, rec := jsonContext(t, http.MethodPost, "/create-payment-intent", map[string]float64{"price": 10})
	require.NoError(t, h.CreateIntent(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "pi_123_secret", resp["clientSecret"])
}

func TestCreateIntentGatewayFailure(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gatewaySrv.Close()

	h := &PaymentHandler{
		Gateway:  payment.NewClient(gatewaySrv.URL, "sk_test"),
		Currency: "usd",
		Validate: validator.New(),
	}

	c, _ := jsonContext(t, http.MethodPost, "/create-payment-intent", map[string]float64{"price": 10})
	err := h.CreateIntent(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadGateway, he.Code)
}

func TestCreateIntentInvalidPrice(t *testing.T) {
	h := &PaymentHandler{
		Gateway:  payment.NewClient("http://unused", "sk_test"),
		Currency: "usd",
		Validate: validator.New(),
	}

	c, _ := jsonContext(t, http.MethodPost, "/create-payment-intent", map[string]float64{"price": 0})
	err := h.CreateIntent(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}
