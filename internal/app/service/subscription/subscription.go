package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/internal/platform/cache"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/logctx"
	"github.com/fatflowers/styler/pkg/metrics"
	"github.com/fatflowers/styler/pkg/tool"
	"github.com/fatflowers/styler/pkg/types"
)

const (
	statusCacheTTL = 60 * time.Second
	verifyLockTTL  = 30 * time.Second
)

type Service struct {
	db      *gorm.DB
	cfg     *config.Config
	store   cache.Store
	gateway gateway.Client
	metrics *metrics.Business
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewService(db *gorm.DB, cfg *config.Config, store cache.Store, gw gateway.Client, m *metrics.Business, log *zap.SugaredLogger) *Service {
	return &Service{
		db:      db,
		cfg:     cfg,
		store:   store,
		gateway: gw,
		metrics: m,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// periodEnd returns valid_until for a period of plan starting at from. Plans
// no longer in the price table keep the period implied by their name.
func (s *Service) periodEnd(plan types.Plan, from time.Time) time.Time {
	item, err := s.cfg.GetPlanItem(plan)
	if err != nil {
		item = &types.PlanItem{Plan: plan, Period: types.BillingPeriodMonthly}
		if plan == types.PlanStylerPlusAnnual {
			item.Period = types.BillingPeriodAnnual
		}
	}
	return item.ValidUntil(from)
}

func (s *Service) writeLog(ctx context.Context, tx *gorm.DB, before, after *models.Subscription, reason types.SubscriptionChangeReason, extra map[string]any) error {
	ref := after
	if ref == nil {
		ref = before
	}
	entry := &models.SubscriptionLog{
		ID:             tool.GenerateUUIDV7(),
		UserID:         ref.UserID,
		SubscriptionID: ref.ID,
		OrderID:        ref.OrderID,
		Reason:         reason,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
		Extra:          datatypes.JSONMap(extra),
		CreatedAt:      s.now(),
	}
	if entry.Extra == nil {
		entry.Extra = datatypes.JSONMap{}
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write subscription log: %w", err)
	}
	return nil
}

func statusCacheKey(userID string) string { return "status:" + userID }

// cachedProfile returns (profile, true) on a hit; a cached nil means the
// user has no profile yet.
func (s *Service) cachedProfile(ctx context.Context, userID string) (*models.Profile, bool) {
	raw, err := s.store.Get(ctx, statusCacheKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logctx.FromCtx(ctx, s.log).Warnw("status_cache_read_failed", "error", err)
		}
		return nil, false
	}
	var p *models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return p, true
}

func (s *Service) cacheProfile(ctx context.Context, userID string, p *models.Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, statusCacheKey(userID), raw, statusCacheTTL); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("status_cache_write_failed", "error", err)
	}
}

func (s *Service) invalidateStatus(ctx context.Context, userIDs ...string) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, statusCacheKey(id))
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("status_cache_invalidate_failed", "error", err)
	}
}

// loadProfile reads the mirror row through the status cache.
func (s *Service) loadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := s.cachedProfile(ctx, userID); ok {
		return p, nil
	}
	var p models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.cacheProfile(ctx, userID, nil)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	s.cacheProfile(ctx, userID, &p)
	return &p, nil
}

func (s *Service) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// PortalURL points at the app's own subscription page; the gateway has no
// hosted customer portal.
func (s *Service) PortalURL() string {
	return s.cfg.App.BaseURL + "/subscription?portal=true"
}
