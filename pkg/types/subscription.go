package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusAbandoned SubscriptionStatus = "abandoned"
)

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCheckout  SubscriptionChangeReason = "checkout"
	SubscriptionChangeReasonVerified  SubscriptionChangeReason = "verified"
	SubscriptionChangeReasonWebhook   SubscriptionChangeReason = "webhook"
	SubscriptionChangeReasonExpired   SubscriptionChangeReason = "expired"
	SubscriptionChangeReasonAbandoned SubscriptionChangeReason = "abandoned"

	// SubscriptionChangeReasonSuperseded expires an older active order when
	// a newer one for the same user is activated.
	SubscriptionChangeReasonSuperseded SubscriptionChangeReason = "superseded"
)

type PaymentProvider string

const (
	PaymentProviderRazorpay PaymentProvider = "razorpay"
)

// SubscriptionStatusInfo is the check-subscription payload.
type SubscriptionStatusInfo struct {
	Subscribed       bool       `json:"subscribed"`
	SubscriptionTier *Plan      `json:"subscription_tier"`
	SubscriptionEnd  *time.Time `json:"subscription_end"`
}
