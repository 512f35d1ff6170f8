package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/types"
)

func unsubscribed() *types.SubscriptionStatusInfo {
	return &types.SubscriptionStatusInfo{Subscribed: false}
}

// CheckSubscription reports the caller's plan from the profile mirror. An
// active mirror whose end has passed is expired on the way out.
func (s *Service) CheckSubscription(ctx context.Context, userID string) (*types.SubscriptionStatusInfo, error) {
	now := s.now()
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return unsubscribed(), nil
	}
	if profile.Lapsed(now) {
		if err := s.expireLapsedProfile(ctx, profile, now); err != nil {
			return nil, err
		}
		return unsubscribed(), nil
	}
	if !profile.Subscribed(now) {
		return unsubscribed(), nil
	}
	tier := *profile.SubscriptionTier
	end := *profile.SubscriptionEnd
	return &types.SubscriptionStatusInfo{
		Subscribed:       true,
		SubscriptionTier: &tier,
		SubscriptionEnd:  &end,
	}, nil
}

func (s *Service) expireLapsedProfile(ctx context.Context, profile *models.Profile, now time.Time) error {
	var expired *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := expireProfileTx(tx, profile.ID, now); err != nil {
			return err
		}
		if profile.SubscriptionTier == nil {
			return nil
		}
		var sub models.Subscription
		err := tx.Where("user_id = ? AND status = ? AND plan = ?", profile.ID, types.SubscriptionStatusActive, *profile.SubscriptionTier).
			Order("created_at DESC").
			First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load active subscription: %w", err)
		}
		if err := s.expireSubscriptionTx(ctx, tx, &sub, now, types.SubscriptionChangeReasonExpired, nil); err != nil {
			return err
		}
		expired = &sub
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateStatus(ctx, profile.ID)
	log := logctx.FromCtx(ctx, s.log)
	if expired != nil {
		s.metrics.SubscriptionTransition(string(types.SubscriptionStatusExpired), string(types.SubscriptionChangeReasonExpired))
		log.Infow("subscription_expired", "subscription_id", expired.ID, "order_id", expired.OrderID, "plan", expired.Plan)
	} else {
		log.Infow("profile_expired_without_subscription", "tier", profile.SubscriptionTier)
	}
	return nil
}

// expireProfileTx flips an active mirror whose end has passed to expired.
func expireProfileTx(tx *gorm.DB, userID string, now time.Time) error {
	err := tx.Model(&models.Profile{}).
		Where("id = ? AND subscription_status = ? AND subscription_end <= ?", userID, types.SubscriptionStatusActive, now).
		Updates(map[string]any{
			"subscription_status": types.SubscriptionStatusExpired,
			"updated_at":          now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire profile: %w", err)
	}
	return nil
}

func (s *Service) expireSubscriptionTx(ctx context.Context, tx *gorm.DB, sub *models.Subscription, now time.Time, reason types.SubscriptionChangeReason, extra map[string]any) error {
	before := *sub
	err := tx.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", sub.ID, types.SubscriptionStatusActive).
		Updates(map[string]any{
			"status":     types.SubscriptionStatusExpired,
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to expire subscription: %w", err)
	}
	sub.Status = types.SubscriptionStatusExpired
	sub.UpdatedAt = now
	return s.writeLog(ctx, tx, &before, sub, reason, extra)
}
