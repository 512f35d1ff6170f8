package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPlan is returned when a plan identifier is not a purchasable plan.
var ErrInvalidPlan = errors.New("invalid plan")

type Plan string

const (
	PlanFree             Plan = "free"
	PlanStylerPlus       Plan = "styler_plus"
	PlanStylerPlusAnnual Plan = "styler_plus_annual"
)

type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "monthly"
	BillingPeriodAnnual  BillingPeriod = "annual"
)

// ParsePlan maps a client supplied plan id onto a known plan. Matching is
// exact; no case folding or separator rewriting is attempted.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(s); p {
	case PlanFree, PlanStylerPlus, PlanStylerPlusAnnual:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
}

func (p Plan) IsPaid() bool {
	return p == PlanStylerPlus || p == PlanStylerPlusAnnual
}

// PlanItem is a purchasable entry of the price table.
type PlanItem struct {
	Plan     Plan          `json:"plan" mapstructure:"plan"`
	Amount   int64         `json:"amount" mapstructure:"amount"` // minor units (paise)
	Currency string        `json:"currency" mapstructure:"currency"`
	Period   BillingPeriod `json:"period" mapstructure:"period"`
}

// ValidUntil returns the end of a billing period started at from.
func (item *PlanItem) ValidUntil(from time.Time) time.Time {
	if item.Period == BillingPeriodAnnual {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 0, 30)
}

func DefaultPlanItems() []*PlanItem {
	return []*PlanItem{
		{Plan: PlanStylerPlus, Amount: 4900, Currency: "INR", Period: BillingPeriodMonthly},
		{Plan: PlanStylerPlusAnnual, Amount: 49900, Currency: "INR", Period: BillingPeriodAnnual},
	}
}
