package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/types"
)

const sweepBatchSize = 500

// SweepResult counts the rows changed by one sweep pass.
type SweepResult struct {
	Abandoned int `json:"abandoned"`
	Expired   int `json:"expired"`
}

// AbandonStalePending marks pending subscriptions created more than ttl ago
// as abandoned. The checkout was started but never paid.
func (s *Service) AbandonStalePending(ctx context.Context, ttl time.Duration) (int, error) {
	now := s.now()
	cutoff := now.Add(-ttl)
	total := 0
	for {
		var batch []*models.Subscription
		err := s.db.WithContext(ctx).
			Where("status = ? AND created_at < ?", types.SubscriptionStatusPending, cutoff).
			Order("created_at").
			Limit(sweepBatchSize).
			Find(&batch).Error
		if err != nil {
			return total, fmt.Errorf("failed to scan pending subscriptions: %w", err)
		}
		if len(batch) == 0 {
			return total, nil
		}

		n := 0
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, sub := range batch {
				before := *sub
				res := tx.Model(&models.Subscription{}).
					Where("id = ? AND status = ?", sub.ID, types.SubscriptionStatusPending).
					Updates(map[string]any{"status": types.SubscriptionStatusAbandoned, "updated_at": now})
				if res.Error != nil {
					return fmt.Errorf("failed to abandon subscription: %w", res.Error)
				}
				if res.RowsAffected == 0 {
					continue
				}
				sub.Status = types.SubscriptionStatusAbandoned
				sub.UpdatedAt = now
				if err := s.writeLog(ctx, tx, &before, sub, types.SubscriptionChangeReasonAbandoned, map[string]any{"pending_ttl": ttl.String()}); err != nil {
					return err
				}
				n++
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		total += n
		for i := 0; i < n; i++ {
			s.metrics.SubscriptionTransition(string(types.SubscriptionStatusAbandoned), string(types.SubscriptionChangeReasonAbandoned))
		}
		if len(batch) < sweepBatchSize {
			return total, nil
		}
	}
}

// ExpireOverdue expires active subscriptions whose valid_until has passed,
// together with their profile mirrors.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	total := 0
	for {
		var batch []*models.Subscription
		err := s.db.WithContext(ctx).
			Where("status = ? AND valid_until <= ?", types.SubscriptionStatusActive, now).
			Order("valid_until").
			Limit(sweepBatchSize).
			Find(&batch).Error
		if err != nil {
			return total, fmt.Errorf("failed to scan overdue subscriptions: %w", err)
		}
		if len(batch) == 0 {
			return total, nil
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, sub := range batch {
				if err := s.expireSubscriptionTx(ctx, tx, sub, now, types.SubscriptionChangeReasonExpired, nil); err != nil {
					return err
				}
				if err := expireProfileTx(tx, sub.UserID, now); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		s.invalidateStatus(ctx, lo.Uniq(lo.Map(batch, func(sub *models.Subscription, _ int) string { return sub.UserID }))...)
		for range batch {
			s.metrics.SubscriptionTransition(string(types.SubscriptionStatusExpired), string(types.SubscriptionChangeReasonExpired))
		}
		total += len(batch)
		if len(batch) < sweepBatchSize {
			return total, nil
		}
	}
}

// Sweep runs both passes.
func (s *Service) Sweep(ctx context.Context, pendingTTL time.Duration) (*SweepResult, error) {
	abandoned, err := s.AbandonStalePending(ctx, pendingTTL)
	if err != nil {
		return nil, err
	}
	expired, err := s.ExpireOverdue(ctx)
	if err != nil {
		return nil, err
	}
	if abandoned > 0 || expired > 0 {
		logctx.FromCtx(ctx, s.log).Infow("subscription_sweep", "abandoned", abandoned, "expired", expired)
	}
	return &SweepResult{Abandoned: abandoned, Expired: expired}, nil
}
