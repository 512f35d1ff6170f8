package models

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/styler/pkg/types"
)

func TestProfile_SubscribedAndLapsed(t *testing.T) {
	now := time.Unix(1735689600, 0)

	var none *Profile
	require.False(t, none.Subscribed(now))
	require.False(t, none.Lapsed(now))

	p := &Profile{
		SubscriptionStatus: lo.ToPtr(types.SubscriptionStatusActive),
		SubscriptionEnd:    lo.ToPtr(now.Add(time.Hour)),
	}
	require.True(t, p.Subscribed(now))
	require.False(t, p.Lapsed(now))

	p.SubscriptionEnd = lo.ToPtr(now)
	require.False(t, p.Subscribed(now))
	require.True(t, p.Lapsed(now))

	p.SubscriptionStatus = lo.ToPtr(types.SubscriptionStatusExpired)
	require.False(t, p.Lapsed(now))
}

func TestSubscription_Valid(t *testing.T) {
	now := time.Unix(1735689600, 0)
	s := &Subscription{Status: types.SubscriptionStatusPending}
	require.False(t, s.Valid(now))

	s.Status = types.SubscriptionStatusActive
	s.ValidUntil = lo.ToPtr(now.Add(time.Minute))
	require.True(t, s.Valid(now))
	require.False(t, s.Valid(now.Add(time.Minute)))
}

func TestTableNames(t *testing.T) {
	require.Equal(t, "subscriptions", Subscription{}.TableName())
	require.Equal(t, "profiles", Profile{}.TableName())
	require.Equal(t, "subscription_logs", SubscriptionLog{}.TableName())
	require.Equal(t, "payment_notification_logs", PaymentNotificationLog{}.TableName())
}
