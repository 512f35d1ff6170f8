package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/styler/pkg/types"
)

type scriptedChecker struct {
	mu    sync.Mutex
	calls int
	steps []error
	// subscribed is reported once the steps are exhausted.
	subscribed bool
}

func (c *scriptedChecker) CheckSubscription(context.Context) (*types.SubscriptionStatusInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i < len(c.steps) && c.steps[i] != nil {
		return nil, c.steps[i]
	}
	return &types.SubscriptionStatusInfo{Subscribed: i >= len(c.steps) && c.subscribed}, nil
}

func (c *scriptedChecker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestStatusPoller_GivesUpAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("boom")
	checker := &scriptedChecker{steps: []error{boom, boom, boom, boom, boom}}
	var seen []int
	p := &StatusPoller{
		Checker:  checker,
		Interval: time.Millisecond,
		OnError:  func(_ error, n int) { seen = append(seen, n) },
	}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrTooManyFailures)
	require.ErrorIs(t, err, boom)
	require.Equal(t, DefaultMaxConsecutiveFailures, checker.count())
	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestStatusPoller_SuccessResetsFailures(t *testing.T) {
	boom := errors.New("boom")
	checker := &scriptedChecker{steps: []error{boom, boom, nil, boom, boom, nil}, subscribed: true}
	var statuses int
	p := &StatusPoller{
		Checker:            checker,
		Interval:           time.Millisecond,
		StopWhenSubscribed: true,
		OnStatus:           func(*types.SubscriptionStatusInfo) { statuses++ },
	}

	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, 7, checker.count())
	require.Equal(t, 3, statuses)
}

func TestStatusPoller_StopsOnCancel(t *testing.T) {
	checker := &scriptedChecker{}
	p := NewStatusPoller(checker, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return checker.count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestStatusPoller_Delay(t *testing.T) {
	p := &StatusPoller{Interval: time.Second, MaxInterval: 10 * time.Second}
	require.Equal(t, time.Second, p.delay(0))
	require.Equal(t, 2*time.Second, p.delay(1))
	require.Equal(t, 4*time.Second, p.delay(2))
	require.Equal(t, 8*time.Second, p.delay(3))
	require.Equal(t, 10*time.Second, p.delay(4))
	require.Equal(t, 10*time.Second, p.delay(20))

	d := &StatusPoller{}
	require.Equal(t, DefaultPollInterval, d.delay(0))
	require.Equal(t, DefaultMaxPollInterval, d.delay(10))
}
