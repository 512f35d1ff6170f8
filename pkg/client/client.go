// Package client calls the Styler function endpoints on behalf of an
// authenticated app user.
package client

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

	"github.com/fatflowers/styler/pkg/types"
)

const functionsPrefix = "/functions/v1/"

// TokenSource yields the bearer token for the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// APIError is a non-2xx answer from a function endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("styler api: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type CheckoutSession struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	KeyID    string `json:"key_id"`
}

// PaymentConfirmation is what the hosted payment widget hands back.
type PaymentConfirmation struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) call(ctx context.Context, function string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", function, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+functionsPrefix+function, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", function, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", function, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", function, err)
	}
	return nil
}

func (c *Client) CreateCheckout(ctx context.Context, plan types.Plan) (*CheckoutSession, error) {
	var out CheckoutSession
	if err := c.call(ctx, "create-checkout", map[string]string{"planId": string(plan)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyPayment(ctx context.Context, p *PaymentConfirmation) error {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.call(ctx, "verify-payment", p, &out); err != nil {
		return err
	}
	if !out.Success {
		return errors.New("verify-payment: not confirmed")
	}
	return nil
}

func (c *Client) CheckSubscription(ctx context.Context) (*types.SubscriptionStatusInfo, error) {
	var out types.SubscriptionStatusInfo
	if err := c.call(ctx, "check-subscription", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscriptionPortal returns the URL of the subscription management page.
func (c *Client) SubscriptionPortal(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.call(ctx, "subscription-portal", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) StylistChat(ctx context.Context, message string, history []ChatTurn) (string, error) {
	in := struct {
		Message string     `json:"message"`
		History []ChatTurn `json:"history,omitempty"`
	}{message, history}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.call(ctx, "stylist-chat", in, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}
