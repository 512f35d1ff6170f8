package notification_handler

import (
	"context"
	"errors"

	"github.com/fatflowers/styler/pkg/types"
)

// ErrInvalidPayload is returned for notifications whose body cannot be parsed.
var ErrInvalidPayload = errors.New("invalid notification payload")

type NotificationParser interface {
	GetProvider(ctx context.Context) types.PaymentProvider
	// GetEventID identifies a delivery for replay protection.
	GetEventID(ctx context.Context) string
	GetEventType(ctx context.Context) string
	GetOrderID(ctx context.Context) string
	GetPaymentID(ctx context.Context) string
	// Activates reports whether the event confirms payment for its order.
	Activates(ctx context.Context) bool
	GetData(ctx context.Context) any
}
