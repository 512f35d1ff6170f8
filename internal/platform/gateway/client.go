// Package gateway talks to the Razorpay-style payment gateway: order
// creation over its REST API and verification of the signatures it issues.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/metrics"
)

var (
	// ErrNotConfigured is returned when the key id or key secret is missing.
	ErrNotConfigured = errors.New("payment gateway is not configured")
	// ErrGateway wraps every non-2xx answer; the message carries the
	// gateway's own error description.
	ErrGateway = errors.New("payment gateway error")
)

const upstreamName = "gateway"

type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	// KeyID is the public key handed to the checkout widget.
	KeyID() string
}

type HTTPClient struct {
	cfg     config.GatewayConfig
	http    *http.Client
	metrics *metrics.Business
}

func NewHTTPClient(cfg config.GatewayConfig, m *metrics.Business) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{cfg: cfg, http: &http.Client{Timeout: timeout}, metrics: m}
}

func (c *HTTPClient) KeyID() string { return c.cfg.KeyID }

func (c *HTTPClient) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/orders"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	c.metrics.ObserveUpstream(upstreamName, "create_order", metrics.MillisecondsSince(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrGateway, describeError(resp.StatusCode, raw))
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("%w: invalid order response: %v", ErrGateway, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: order response has no id", ErrGateway)
	}
	return &order, nil
}

func describeError(status int, raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Description != "" {
		return e.Error.Description
	}
	return fmt.Sprintf("unexpected status %d", status)
}
