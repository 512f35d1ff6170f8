package models

import (
	"time"

	"github.com/fatflowers/styler/pkg/types"
)

// Profile mirrors the subscription state onto the user's profile row so a
// status check is a single-row read.
type Profile struct {
	ID                 string                    `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email              string                    `gorm:"column:email;type:varchar(255)" json:"email"`
	SubscriptionTier   *types.Plan               `gorm:"column:subscription_tier;type:varchar(32);default:null" json:"subscription_tier"`
	SubscriptionStatus *types.SubscriptionStatus `gorm:"column:subscription_status;type:varchar(32);default:null" json:"subscription_status"`
	SubscriptionStart  *time.Time                `gorm:"column:subscription_start;default:null" json:"subscription_start"`
	SubscriptionEnd    *time.Time                `gorm:"column:subscription_end;default:null" json:"subscription_end"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) IsActive() bool {
	return p != nil && p.SubscriptionStatus != nil && *p.SubscriptionStatus == types.SubscriptionStatusActive
}

// Subscribed reports whether the mirror grants access at now.
func (p *Profile) Subscribed(now time.Time) bool {
	return p.IsActive() && p.SubscriptionEnd != nil && p.SubscriptionEnd.After(now)
}

// Lapsed reports an active mirror whose end date has passed; such rows are
// repaired to expired when observed.
func (p *Profile) Lapsed(now time.Time) bool {
	return p.IsActive() && p.SubscriptionEnd != nil && !p.SubscriptionEnd.After(now)
}
