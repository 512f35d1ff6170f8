package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/internal/platform/cache"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/types"
)

type VerifyRequest struct {
	UserID    string
	Email     string
	OrderID   string
	PaymentID string
	Signature string
}

// activation describes one pending → active transition.
type activation struct {
	orderID   string
	paymentID string
	// userID scopes the lookup; empty for gateway initiated activations.
	userID string
	email  string
	reason types.SubscriptionChangeReason
}

// VerifyPayment checks the gateway signature and activates the
// subscription and its profile mirror. Repeating a successful verification
// is a no-op.
func (s *Service) VerifyPayment(ctx context.Context, req *VerifyRequest) error {
	log := logctx.FromCtx(ctx, s.log)

	if !s.cfg.Gateway.Configured() {
		return gateway.ErrNotConfigured
	}
	if !gateway.VerifyPaymentSignature(s.cfg.Gateway.KeySecret, req.OrderID, req.PaymentID, req.Signature) {
		log.Warnw("payment_signature_invalid", "order_id", req.OrderID, "payment_id", req.PaymentID)
		s.metrics.PaymentVerification("invalid_signature")
		return ErrInvalidSignature
	}

	_, err := s.activateLocked(ctx, &activation{
		orderID:   req.OrderID,
		paymentID: req.PaymentID,
		userID:    req.UserID,
		email:     req.Email,
		reason:    types.SubscriptionChangeReasonVerified,
	})
	switch {
	case err == nil:
		s.metrics.PaymentVerification("ok")
	case errors.Is(err, ErrSubscriptionNotFound):
		s.metrics.PaymentVerification("not_found")
	case errors.Is(err, ErrVerificationInProgress):
		s.metrics.PaymentVerification("in_progress")
	default:
		s.metrics.PaymentVerification("error")
	}
	return err
}

// ActivateByOrder applies a gateway confirmation for orderID. Rows that are
// already active keep their period. Abandoned rows are revived since the
// gateway only confirms orders that were actually paid. Events without a
// payment id change nothing; the payment's own event follows.
func (s *Service) ActivateByOrder(ctx context.Context, orderID, paymentID string) (bool, error) {
	if paymentID == "" {
		logctx.FromCtx(ctx, s.log).Infow("activation_awaiting_payment", "order_id", orderID)
		return false, nil
	}
	return s.activateLocked(ctx, &activation{
		orderID:   orderID,
		paymentID: paymentID,
		reason:    types.SubscriptionChangeReasonWebhook,
	})
}

func (s *Service) activateLocked(ctx context.Context, a *activation) (bool, error) {
	unlock, ok, err := cache.TryLock(ctx, s.store, "verify:"+a.orderID, verifyLockTTL)
	if err != nil {
		return false, fmt.Errorf("failed to acquire verification lock: %w", err)
	}
	if !ok {
		return false, ErrVerificationInProgress
	}
	defer unlock()

	changed, sub, err := s.activate(ctx, a)
	if err != nil {
		return false, err
	}
	if changed {
		s.invalidateStatus(ctx, sub.UserID)
		s.metrics.SubscriptionTransition(string(types.SubscriptionStatusActive), string(a.reason))
		logctx.FromCtx(ctx, s.log).Infow("subscription_activated",
			"subscription_id", sub.ID, "order_id", sub.OrderID, "plan", sub.Plan,
			"valid_until", sub.ValidUntil, "reason", a.reason)
	}
	return changed, nil
}

func (s *Service) activate(ctx context.Context, a *activation) (changed bool, sub *models.Subscription, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Subscription
		q := tx.Where("order_id = ?", a.orderID)
		if a.userID != "" {
			q = q.Where("user_id = ?", a.userID)
		}
		if err := q.First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		sub = &current

		switch current.Status {
		case types.SubscriptionStatusPending:
		case types.SubscriptionStatusAbandoned:
			if a.reason != types.SubscriptionChangeReasonWebhook {
				return ErrSubscriptionNotFound
			}
			logctx.FromCtx(ctx, s.log).Warnw("abandoned_order_paid", "order_id", current.OrderID, "user_id", current.UserID)
		case types.SubscriptionStatusActive:
			if current.PaymentID == nil || *current.PaymentID == "" {
				return s.fillPaymentID(ctx, tx, &current, a)
			}
			if a.reason == types.SubscriptionChangeReasonWebhook || *current.PaymentID == a.paymentID {
				return nil
			}
			return ErrSubscriptionNotFound
		default:
			return ErrSubscriptionNotFound
		}

		before := current
		now := s.now()
		validUntil := s.periodEnd(current.Plan, now)
		paymentID := a.paymentID

		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", current.ID, current.Status).
			Updates(map[string]any{
				"status":      types.SubscriptionStatusActive,
				"payment_id":  paymentID,
				"valid_until": validUntil,
				"updated_at":  now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to activate subscription: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrVerificationInProgress
		}
		current.Status = types.SubscriptionStatusActive
		current.PaymentID = &paymentID
		current.ValidUntil = &validUntil
		current.UpdatedAt = now

		if err := s.supersedeActive(ctx, tx, &current, now); err != nil {
			return err
		}
		if err := s.upsertProfile(tx, &current, a.email, now); err != nil {
			return err
		}
		if err := s.writeLog(ctx, tx, &before, &current, a.reason, map[string]any{"payment_id": paymentID}); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, sub, err
}

// fillPaymentID records the payment id on an active row that was activated
// without one. The period is left as it is.
func (s *Service) fillPaymentID(ctx context.Context, tx *gorm.DB, current *models.Subscription, a *activation) error {
	before := *current
	now := s.now()
	err := tx.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", current.ID, types.SubscriptionStatusActive).
		Updates(map[string]any{"payment_id": a.paymentID, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to record payment id: %w", err)
	}
	paymentID := a.paymentID
	current.PaymentID = &paymentID
	current.UpdatedAt = now
	return s.writeLog(ctx, tx, &before, current, a.reason, map[string]any{"payment_id": paymentID, "backfill": true})
}

// supersedeActive expires the user's other active orders so the profile
// mirror and the subscription rows agree on one current order.
func (s *Service) supersedeActive(ctx context.Context, tx *gorm.DB, current *models.Subscription, now time.Time) error {
	var older []*models.Subscription
	err := tx.Where("user_id = ? AND status = ? AND id <> ?", current.UserID, types.SubscriptionStatusActive, current.ID).
		Find(&older).Error
	if err != nil {
		return fmt.Errorf("failed to load active subscriptions: %w", err)
	}
	for _, old := range older {
		extra := map[string]any{"superseded_by": current.OrderID}
		if err := s.expireSubscriptionTx(ctx, tx, old, now, types.SubscriptionChangeReasonSuperseded, extra); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) upsertProfile(tx *gorm.DB, sub *models.Subscription, email string, now time.Time) error {
	status := types.SubscriptionStatusActive
	plan := sub.Plan
	profile := &models.Profile{
		ID:                 sub.UserID,
		Email:              email,
		SubscriptionTier:   &plan,
		SubscriptionStatus: &status,
		SubscriptionStart:  &now,
		SubscriptionEnd:    sub.ValidUntil,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	columns := []string{"subscription_tier", "subscription_status", "subscription_start", "subscription_end", "updated_at"}
	if email != "" {
		columns = append(columns, "email")
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
