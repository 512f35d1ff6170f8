package models

import (
	"time"

	"github.com/fatflowers/styler/pkg/types"
	"gorm.io/datatypes"
)

// SubscriptionLog records every state transition of a subscription.
// Use case: troubleshooting and payment disputes.
type SubscriptionLog struct {
	ID             string                         `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string                         `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	SubscriptionID string                         `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	OrderID        string                         `gorm:"column:order_id;type:varchar(64);not null" json:"order_id"`
	Reason         types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(32);not null" json:"reason"`
	// Before is null for the checkout entry.
	Before    datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'" json:"before"`
	After     datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'" json:"after"`
	Extra     datatypes.JSONMap                 `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_logs"
}
