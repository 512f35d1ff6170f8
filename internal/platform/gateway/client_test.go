package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/styler/pkg/config"
)

func TestCreateOrder_SendsBasicAuthAndBody(t *testing.T) {
	var got CreateOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_123","amount":4900,"currency":"INR","receipt":"rcpt_x","status":"created"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(config.GatewayConfig{BaseURL: srv.URL + "/", KeyID: "rzp_test_key", KeySecret: "secret"}, nil)
	order, err := c.CreateOrder(context.Background(), &CreateOrderRequest{
		Amount:   4900,
		Currency: "INR",
		Receipt:  "rcpt_x",
		Notes:    map[string]string{"user_id": "u1", "plan": "styler_plus"},
	})
	require.NoError(t, err)
	require.Equal(t, "order_123", order.ID)
	require.Equal(t, int64(4900), order.Amount)
	require.Equal(t, "rzp_test_key", c.KeyID())

	require.Equal(t, int64(4900), got.Amount)
	require.Equal(t, "u1", got.Notes["user_id"])
	require.Equal(t, "styler_plus", got.Notes["plan"])
}

func TestCreateOrder_PassesThroughGatewayDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(config.GatewayConfig{BaseURL: srv.URL, KeyID: "k", KeySecret: "s"}, nil)
	_, err := c.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrGateway))
	require.Contains(t, err.Error(), "The amount must be atleast INR 1.00")
}

func TestCreateOrder_UnparseableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClient(config.GatewayConfig{BaseURL: srv.URL, KeyID: "k", KeySecret: "s"}, nil)
	_, err := c.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 1, Currency: "INR"})
	require.True(t, errors.Is(err, ErrGateway))
	require.Contains(t, err.Error(), "unexpected status 503")
}

func TestCreateOrder_NotConfigured(t *testing.T) {
	c := NewHTTPClient(config.GatewayConfig{BaseURL: "http://127.0.0.1:1", KeyID: "k"}, nil)
	_, err := c.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 1})
	require.True(t, errors.Is(err, ErrNotConfigured))
}
