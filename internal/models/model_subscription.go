package models

import (
	"time"

	"github.com/fatflowers/styler/pkg/types"
)

// Subscription is one purchase attempt: created pending at checkout, keyed by
// the gateway order id, and moved to active once the payment is verified.
type Subscription struct {
	ID       string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID   string                   `gorm:"column:user_id;type:varchar(64);not null;index:idx_subscriptions_user_status,priority:1" json:"user_id"`
	OrderID  string                   `gorm:"column:order_id;type:varchar(64);not null;uniqueIndex" json:"order_id"`
	Plan     types.Plan               `gorm:"column:plan;type:varchar(32);not null" json:"plan"`
	Status   types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index:idx_subscriptions_user_status,priority:2" json:"status"`
	Amount   int64                    `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Currency string                   `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Receipt  string                   `gorm:"column:receipt;type:varchar(64)" json:"receipt"`
	// PaymentID and ValidUntil stay nil until the payment is verified.
	PaymentID  *string    `gorm:"column:payment_id;type:varchar(64);default:null" json:"payment_id"`
	ValidUntil *time.Time `gorm:"column:valid_until;default:null" json:"valid_until"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Valid reports whether the subscription grants access at now.
func (s *Subscription) Valid(now time.Time) bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		s.ValidUntil != nil &&
		s.ValidUntil.After(now)
}
