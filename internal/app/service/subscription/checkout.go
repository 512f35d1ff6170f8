package subscription

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/tool"
	"github.com/fatflowers/styler/pkg/types"
)

type CheckoutRequest struct {
	UserID string
	Email  string
	PlanID string
}

type CheckoutResult struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	KeyID    string `json:"key_id"`
}

// CreateCheckout mints a gateway order for the plan and records a pending
// subscription keyed by the order id.
func (s *Service) CreateCheckout(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	log := logctx.FromCtx(ctx, s.log)

	plan, err := types.ParsePlan(req.PlanID)
	if err != nil {
		return nil, err
	}
	item, err := s.cfg.GetPlanItem(plan)
	if err != nil {
		return nil, err
	}
	if !s.cfg.Gateway.Configured() {
		return nil, gateway.ErrNotConfigured
	}

	now := s.now()
	receipt := tool.GenerateReceipt(req.UserID, now)
	order, err := s.gateway.CreateOrder(ctx, &gateway.CreateOrderRequest{
		Amount:   item.Amount,
		Currency: item.Currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"user_id": req.UserID,
			"plan":    string(plan),
		},
	})
	if err != nil {
		log.Errorw("gateway_order_failed", "plan", plan, "error", err)
		return nil, err
	}

	sub := &models.Subscription{
		ID:        tool.GenerateUUIDV7(),
		UserID:    req.UserID,
		OrderID:   order.ID,
		Plan:      plan,
		Status:    types.SubscriptionStatusPending,
		Amount:    item.Amount,
		Currency:  item.Currency,
		Receipt:   receipt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return s.writeLog(ctx, tx, nil, sub, types.SubscriptionChangeReasonCheckout, map[string]any{"receipt": receipt})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CheckoutCreated(string(plan))
	s.metrics.SubscriptionTransition(string(types.SubscriptionStatusPending), string(types.SubscriptionChangeReasonCheckout))
	log.Infow("checkout_created", "order_id", order.ID, "plan", plan, "amount", item.Amount)

	return &CheckoutResult{
		OrderID:  order.ID,
		Amount:   item.Amount,
		Currency: item.Currency,
		Email:    req.Email,
		KeyID:    s.gateway.KeyID(),
	}, nil
}
