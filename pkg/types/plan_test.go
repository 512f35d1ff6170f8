package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	for _, s := range []string{"free", "styler_plus", "styler_plus_annual"} {
		p, err := ParsePlan(s)
		require.NoError(t, err)
		require.Equal(t, Plan(s), p)
	}
	for _, s := range []string{"", "Styler Plus", "styler plus", "STYLER_PLUS", "styler_plus "} {
		_, err := ParsePlan(s)
		require.True(t, errors.Is(err, ErrInvalidPlan), "input %q", s)
	}
}

func TestPlanItem_ValidUntil(t *testing.T) {
	start := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	monthly := &PlanItem{Plan: PlanStylerPlus, Period: BillingPeriodMonthly}
	annual := &PlanItem{Plan: PlanStylerPlusAnnual, Period: BillingPeriodAnnual}

	require.Equal(t, start.Add(30*24*time.Hour), monthly.ValidUntil(start))
	require.Equal(t, time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC), annual.ValidUntil(start))
}

func TestPlan_IsPaid(t *testing.T) {
	require.False(t, PlanFree.IsPaid())
	require.True(t, PlanStylerPlus.IsPaid())
	require.True(t, PlanStylerPlusAnnual.IsPaid())
}
