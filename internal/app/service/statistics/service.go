package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/pkg/types"
)

// SubscriptionStatisticRequest limits every figure to rows created in
// [From, To). Both bounds are optional.
type SubscriptionStatisticRequest struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

type CountItem struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type RevenueItem struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
	Count    int64  `json:"count"`
}

type DailyItem struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

type SubscriptionStatisticResponse struct {
	ByStatus         []CountItem   `json:"by_status"`
	ByPlan           []CountItem   `json:"by_plan"`
	Revenue          []RevenueItem `json:"revenue"`
	DailyActivations []DailyItem   `json:"daily_activations"`
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (r *SubscriptionStatisticRequest) scope(column string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if r == nil {
			return q
		}
		if r.From != nil {
			q = q.Where(column+" >= ?", r.From.UTC())
		}
		if r.To != nil {
			q = q.Where(column+" < ?", r.To.UTC())
		}
		return q
	}
}

func (s *Service) countBy(ctx context.Context, req *SubscriptionStatisticRequest, column string) ([]CountItem, error) {
	var results []CountItem
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Scopes(req.scope("created_at")).
		Select(column + " as label, count(*) as value").
		Group(column).
		Order("label").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions by %s: %w", column, err)
	}
	return results, nil
}

// getRevenue sums verified payments per currency. Expired rows were paid
// for, so they count.
func (s *Service) getRevenue(ctx context.Context, req *SubscriptionStatisticRequest) ([]RevenueItem, error) {
	var results []RevenueItem
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Scopes(req.scope("created_at")).
		Select("currency, sum(amount) as amount, count(*) as count").
		Where("payment_id IS NOT NULL").
		Where("status IN ?", []types.SubscriptionStatus{types.SubscriptionStatusActive, types.SubscriptionStatusExpired}).
		Group("currency").
		Order("currency").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return results, nil
}

// getDailyActivations buckets activation log entries by UTC day. Bucketing
// happens here so the query stays portable across Postgres and SQLite.
func (s *Service) getDailyActivations(ctx context.Context, req *SubscriptionStatisticRequest) ([]DailyItem, error) {
	var stamps []time.Time
	err := s.db.WithContext(ctx).Model(&models.SubscriptionLog{}).
		Scopes(req.scope("created_at")).
		Where("reason IN ?", []types.SubscriptionChangeReason{types.SubscriptionChangeReasonVerified, types.SubscriptionChangeReasonWebhook}).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activations: %w", err)
	}
	counts := lo.CountValuesBy(stamps, func(t time.Time) string { return t.UTC().Format(time.DateOnly) })
	items := lo.MapToSlice(counts, func(date string, n int) DailyItem { return DailyItem{Date: date, Value: int64(n)} })
	sort.Slice(items, func(i, j int) bool { return items[i].Date > items[j].Date })
	return items, nil
}

// GetSubscriptionStatistic computes all figures concurrently.
func (s *Service) GetSubscriptionStatistic(ctx context.Context, req *SubscriptionStatisticRequest) (*SubscriptionStatisticResponse, error) {
	if req != nil && req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("invalid range: from must be before to")
	}
	res := &SubscriptionStatisticResponse{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.ByStatus, err = s.countBy(gctx, req, "status")
		return err
	})
	g.Go(func() (err error) {
		res.ByPlan, err = s.countBy(gctx, req, "plan")
		return err
	})
	g.Go(func() (err error) {
		res.Revenue, err = s.getRevenue(gctx, req)
		return err
	})
	g.Go(func() (err error) {
		res.DailyActivations, err = s.getDailyActivations(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
