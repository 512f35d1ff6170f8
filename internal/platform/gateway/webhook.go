package gateway

import (
	"encoding/json"
	"fmt"
)

// Header names set by the gateway on webhook deliveries.
const (
	HeaderSignature = "X-Razorpay-Signature"
	HeaderEventID   = "X-Razorpay-Event-Id"
)

const (
	EventOrderPaid       = "order.paid"
	EventPaymentCaptured = "payment.captured"
)

type WebhookEvent struct {
	Entity  string         `json:"entity"`
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment *struct {
		Entity PaymentEntity `json:"entity"`
	} `json:"payment,omitempty"`
	Order *struct {
		Entity OrderEntity `json:"entity"`
	} `json:"order,omitempty"`
}

type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type OrderEntity struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	if ev.Event == "" {
		return nil, fmt.Errorf("invalid webhook payload: missing event")
	}
	return &ev, nil
}

// OrderID prefers the order entity and falls back to the payment's order.
func (e *WebhookEvent) OrderID() string {
	if e.Payload.Order != nil && e.Payload.Order.Entity.ID != "" {
		return e.Payload.Order.Entity.ID
	}
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.OrderID
	}
	return ""
}

func (e *WebhookEvent) PaymentID() string {
	if e.Payload.Payment != nil {
		return e.Payload.Payment.Entity.ID
	}
	return ""
}

// Activates reports whether the event confirms a payment for its order.
func (e *WebhookEvent) Activates() bool {
	return e.Event == EventOrderPaid || e.Event == EventPaymentCaptured
}
