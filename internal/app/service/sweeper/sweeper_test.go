package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/internal/app/service/subscription"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingTarget struct {
	calls atomic.Int32
	ttl   atomic.Int64
	err   error
}

func (c *countingTarget) Sweep(_ context.Context, ttl time.Duration) (*subscription.SweepResult, error) {
	c.calls.Add(1)
	c.ttl.Store(int64(ttl))
	if c.err != nil {
		return nil, c.err
	}
	return &subscription.SweepResult{Abandoned: 1}, nil
}

func TestSweeper_TicksUntilStopped(t *testing.T) {
	target := &countingTarget{}
	s := New(target, 5*time.Millisecond, 24*time.Hour, zap.NewNop().Sugar())
	s.Start()
	s.Start()

	require.Eventually(t, func() bool { return target.calls.Load() >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	require.Equal(t, int64(24*time.Hour), target.ttl.Load())

	after := target.calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, target.calls.Load())

	require.NoError(t, s.Stop(context.Background()))
}

func TestSweeper_RunOnce(t *testing.T) {
	target := &countingTarget{}
	s := New(target, time.Hour, time.Hour, zap.NewNop().Sugar())
	res := s.RunOnce(context.Background())
	require.Equal(t, &subscription.SweepResult{Abandoned: 1}, res)

	target.err = errors.New("db down")
	require.Nil(t, s.RunOnce(context.Background()))
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	s := New(&countingTarget{}, time.Hour, time.Hour, zap.NewNop().Sugar())
	require.NoError(t, s.Stop(context.Background()))
}
