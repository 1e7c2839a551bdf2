package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrGateway marks any failure of the external payment provider. The
// provider is opaque to this service: we only create charge intents and
// hand the client secret back to the storefront.
var ErrGateway = errors.New("payment gateway")

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type createIntentRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

type Client struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		apiURL:     apiURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateIntent asks the provider for a charge intent over the given amount
// in minor units. Every call carries a fresh idempotency key; retries of a
// failed call are the caller's decision.
func (c *Client) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (*Intent, error) {
	body := createIntentRequest{
		Amount:         amountMinorUnits,
		Currency:       currency,
		IdempotencyKey: uuid.NewString(),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/payment_intents", &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrGateway, resp.Status)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return &intent, nil
}
