package notification_handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/types"
)

type RazorpayNotificationParser struct {
	eventID string
	event   *gateway.WebhookEvent
	raw     json.RawMessage
}

// GetRazorpayNotificationParser authenticates the delivery against the
// webhook secret before decoding it.
func GetRazorpayNotificationParser(cfg *config.Config, header http.Header, body []byte) (*RazorpayNotificationParser, error) {
	secret := cfg.Gateway.WebhookSecret
	if secret == "" {
		return nil, subscription.ErrWebhookNotConfigured
	}
	if !gateway.VerifyWebhookSignature(secret, body, header.Get(gateway.HeaderSignature)) {
		return nil, subscription.ErrInvalidSignature
	}
	ev, err := gateway.ParseWebhookEvent(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	eventID := header.Get(gateway.HeaderEventID)
	if eventID == "" {
		// deliveries without an id are deduplicated by content
		sum := sha256.Sum256(body)
		eventID = "sha256:" + hex.EncodeToString(sum[:16])
	}
	return &RazorpayNotificationParser{eventID: eventID, event: ev, raw: json.RawMessage(body)}, nil
}

func (p *RazorpayNotificationParser) GetProvider(context.Context) types.PaymentProvider {
	return types.PaymentProviderRazorpay
}

func (p *RazorpayNotificationParser) GetEventID(context.Context) string   { return p.eventID }
func (p *RazorpayNotificationParser) GetEventType(context.Context) string { return p.event.Event }
func (p *RazorpayNotificationParser) GetOrderID(context.Context) string   { return p.event.OrderID() }
func (p *RazorpayNotificationParser) GetPaymentID(context.Context) string { return p.event.PaymentID() }
func (p *RazorpayNotificationParser) Activates(context.Context) bool      { return p.event.Activates() }
func (p *RazorpayNotificationParser) GetData(context.Context) any         { return p.raw }
