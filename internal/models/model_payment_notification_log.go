package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentNotificationLogStatus string

const (
	PaymentNotificationLogStatusReceived     PaymentNotificationLogStatus = "received"
	PaymentNotificationLogStatusHandled      PaymentNotificationLogStatus = "handled"
	PaymentNotificationLogStatusHandleFailed PaymentNotificationLogStatus = "handle_failed"
	PaymentNotificationLogStatusDuplicate    PaymentNotificationLogStatus = "duplicate"
)

type PaymentNotificationLog struct {
	ID         string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID string                       `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	EventID    string                       `gorm:"column:event_id;type:varchar(128);index" json:"event_id"`
	EventType  string                       `gorm:"column:event_type;type:varchar(64)" json:"event_type"`
	OrderID    string                       `gorm:"column:order_id;type:varchar(64);index" json:"order_id"`
	TraceID    string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	Data       datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Result     *datatypes.JSON              `gorm:"column:result;type:jsonb" json:"result"`
	Status     PaymentNotificationLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

func (PaymentNotificationLog) TableName() string { return "payment_notification_logs" }
