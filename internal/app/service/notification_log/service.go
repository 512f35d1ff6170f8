package notification_log

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save persists a payment notification log. Failures are logged and never
// fail the notification itself. Nil input is ignored.
func (s *Service) Save(ctx context.Context, log *models.PaymentNotificationLog) {
	if log == nil {
		return
	}
	if log.ID == "" {
		log.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Save(log).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to save notification log: %v", err)
	}
}

// ListByOrder returns the notification history of an order, oldest first.
func (s *Service) ListByOrder(ctx context.Context, orderID string) ([]*models.PaymentNotificationLog, error) {
	var logs []*models.PaymentNotificationLog
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at, id").Find(&logs).Error
	return logs, err
}
