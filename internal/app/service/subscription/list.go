package subscription

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/pkg/types"
)

const (
	defaultListSize = 20
	maxListSize     = 200
)

// ListFields are the columns admin filters and sorts may reference.
var ListFields = []string{
	"id", "user_id", "order_id", "plan", "status", "amount", "currency",
	"payment_id", "valid_until", "created_at", "updated_at",
}

type ListRequest struct {
	Filters   types.CommonFilters `json:"filters"`
	From      int                 `json:"from"`
	Size      int                 `json:"size"`
	SortBy    string              `json:"sort_by"`
	SortOrder string              `json:"sort_order"`
}

type ListResult struct {
	Items []*models.Subscription `json:"items"`
	Total int64                  `json:"total"`
}

func (r *ListRequest) normalize() error {
	for _, f := range r.Filters {
		if err := f.Validate(ListFields); err != nil {
			return err
		}
	}
	if r.SortBy == "" {
		r.SortBy = "created_at"
	}
	if !lo.Contains(ListFields, r.SortBy) {
		return fmt.Errorf("sort field not allowed: %s", r.SortBy)
	}
	switch r.SortOrder {
	case "", "desc", "asc":
	default:
		return fmt.Errorf("invalid sort order: %s", r.SortOrder)
	}
	if r.From < 0 {
		r.From = 0
	}
	if r.Size <= 0 {
		r.Size = defaultListSize
	}
	r.Size = min(r.Size, maxListSize)
	return nil
}

// ListSubscriptions pages through subscriptions for the admin console.
func (s *Service) ListSubscriptions(ctx context.Context, req *ListRequest) (*ListResult, error) {
	if err := req.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListRequest, err)
	}
	where := clause.Where{Exprs: []clause.Expression{req.Filters}}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).Where(where).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	items := make([]*models.Subscription, 0)
	err := s.db.WithContext(ctx).
		Where(where).
		Order(clause.OrderByColumn{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}).
		Offset(req.From).
		Limit(req.Size).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return &ListResult{Items: items, Total: total}, nil
}
