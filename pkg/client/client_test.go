package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fatflowers/styler/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", StaticToken("tok"), WithHTTPClient(srv.Client()))
}

func TestClient_CreateCheckout(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/functions/v1/create-checkout", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "styler_plus", in["planId"])
		_, _ = w.Write([]byte(`{"order_id":"order_1","amount":4900,"currency":"INR","email":"a@b.c","key_id":"rzp_key"}`))
	})

	s, err := c.CreateCheckout(context.Background(), types.PlanStylerPlus)
	require.NoError(t, err)
	require.Equal(t, &CheckoutSession{OrderID: "order_1", Amount: 4900, Currency: "INR", Email: "a@b.c", KeyID: "rzp_key"}, s)
}

func TestClient_APIError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid signature"}`))
	})

	err := c.VerifyPayment(context.Background(), &PaymentConfirmation{OrderID: "o", PaymentID: "p", Signature: "s"})
	require.Error(t, err)
	require.True(t, IsStatus(err, http.StatusBadRequest))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid signature", apiErr.Message)
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.SubscriptionPortal(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_CheckSubscriptionAndChat(t *testing.T) {
	end := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/functions/v1/check-subscription":
			_, _ = w.Write([]byte(`{"subscribed":true,"subscription_tier":"styler_plus","subscription_end":"2026-11-01T00:00:00Z"}`))
		case "/functions/v1/stylist-chat":
			var in struct {
				Message string     `json:"message"`
				History []ChatTurn `json:"history"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			require.Equal(t, "hi", in.Message)
			require.Len(t, in.History, 1)
			_, _ = w.Write([]byte(`{"reply":"hello"}`))
		default:
			http.NotFound(w, r)
		}
	})

	st, err := c.CheckSubscription(context.Background())
	require.NoError(t, err)
	require.True(t, st.Subscribed)
	require.Equal(t, types.PlanStylerPlus, *st.SubscriptionTier)
	require.True(t, end.Equal(*st.SubscriptionEnd))

	reply, err := c.StylistChat(context.Background(), "hi", []ChatTurn{{Role: "user", Content: "earlier"}})
	require.NoError(t, err)
	require.Equal(t, "hello", reply)
}
