package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestMemory(now *time.Time) *Memory {
	m := NewMemory()
	m.now = func() time.Time { return *now }
	return m
}

func TestMemory_GetSetExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1735689600, 0)
	m := newTestMemory(&now)

	_, err := m.Get(ctx, "k")
	require.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	require.True(t, errors.Is(err, ErrMiss))
}

func TestTryLock_ExclusiveUntilUnlock(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1735689600, 0)
	m := newTestMemory(&now)

	unlock, ok, err := TryLock(ctx, m, "verify:order_1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = TryLock(ctx, m, "verify:order_1", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	unlock()
	unlock2, ok, err := TryLock(ctx, m, "verify:order_1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer unlock2()
}

func TestTryLock_StaleUnlockDoesNotReleaseNewOwner(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1735689600, 0)
	m := newTestMemory(&now)

	staleUnlock, ok, _ := TryLock(ctx, m, "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second) // first lock expired
	_, ok, _ = TryLock(ctx, m, "k", time.Minute)
	require.True(t, ok)

	staleUnlock()
	_, ok, _ = TryLock(ctx, m, "k", time.Minute)
	require.False(t, ok, "expired owner must not release the current lock")
}

func TestFirstSeen(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1735689600, 0)
	m := newTestMemory(&now)

	first, err := FirstSeen(ctx, m, "evt_1", time.Hour)
	require.NoError(t, err)
	require.True(t, first)

	first, err = FirstSeen(ctx, m, "evt_1", time.Hour)
	require.NoError(t, err)
	require.False(t, first)
}
