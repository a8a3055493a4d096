// Package settlement implements the REST client for the platform's
// settlement provider.
package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solgrid/fieldmatch/auth"
	"github.com/solgrid/fieldmatch/connectors"
	"github.com/solgrid/fieldmatch/core/marketplace"
)

// Client talks to the settlement provider's payments API.
type Client struct {
	baseURL string
	auth    *auth.ClientCred
	http    *http.Client
}

// New creates a client for the given API base URL.
func New(baseURL string, cred *auth.ClientCred, opts ...connectors.Option) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		auth:    cred,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) connectors.Option {
	return func(c connectors.GatewayClient) error {
		if s, ok := c.(*Client); ok {
			s.http.Timeout = d
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, "WithTimeout", "settlement")
	}
}

type movementRequest struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
}

// Capture instructs the provider to pull the amount into the platform
// escrow account.
func (c *Client) Capture(ctx context.Context, paymentID string, amount float64) (marketplace.SettlementReceipt, error) {
	return c.post(ctx, "capture", paymentID, amount)
}

// Release pays the amount out of escrow to the installer.
func (c *Client) Release(ctx context.Context, paymentID string, amount float64) (marketplace.SettlementReceipt, error) {
	return c.post(ctx, "release", paymentID, amount)
}

// Refund returns the amount from escrow to the payer.
func (c *Client) Refund(ctx context.Context, paymentID string, amount float64) (marketplace.SettlementReceipt, error) {
	return c.post(ctx, "refund", paymentID, amount)
}

func (c *Client) post(ctx context.Context, op, paymentID string, amount float64) (marketplace.SettlementReceipt, error) {
	body, err := json.Marshal(movementRequest{PaymentID: paymentID, Amount: amount})
	if err != nil {
		return marketplace.SettlementReceipt{}, err
	}
	url := fmt.Sprintf("%s/payments/%s", c.baseURL, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return marketplace.SettlementReceipt{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.auth != nil {
		if err := c.auth.SetAuthHeader(req); err != nil {
			return marketplace.SettlementReceipt{}, fmt.Errorf("failed to set auth header: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return marketplace.SettlementReceipt{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return marketplace.SettlementReceipt{}, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, data)
	}
	var receipt marketplace.SettlementReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return marketplace.SettlementReceipt{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return receipt, nil
}
