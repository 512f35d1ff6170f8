package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/styler/pkg/types"
)

const (
	DefaultPollInterval           = 30 * time.Second
	DefaultMaxPollInterval        = 5 * time.Minute
	DefaultMaxConsecutiveFailures = 3
)

// ErrTooManyFailures is returned by StatusPoller.Run once the failure budget
// is spent. It wraps the last error seen.
var ErrTooManyFailures = errors.New("status poller: too many consecutive failures")

type StatusChecker interface {
	CheckSubscription(ctx context.Context) (*types.SubscriptionStatusInfo, error)
}

// StatusPoller polls check-subscription. Failures back off exponentially
// from Interval up to MaxInterval; a success resets the count.
type StatusPoller struct {
	Checker                StatusChecker
	Interval               time.Duration
	MaxInterval            time.Duration
	MaxConsecutiveFailures int
	// StopWhenSubscribed ends Run after the first subscribed status, which
	// is what the app wants right after checkout.
	StopWhenSubscribed bool

	OnStatus func(*types.SubscriptionStatusInfo)
	OnError  func(err error, consecutive int)
}

func NewStatusPoller(checker StatusChecker, interval time.Duration) *StatusPoller {
	return &StatusPoller{Checker: checker, Interval: interval}
}

func (p *StatusPoller) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultPollInterval
	}
	return p.Interval
}

func (p *StatusPoller) maxInterval() time.Duration {
	if p.MaxInterval <= 0 {
		return max(DefaultMaxPollInterval, p.interval())
	}
	return p.MaxInterval
}

func (p *StatusPoller) maxFailures() int {
	if p.MaxConsecutiveFailures <= 0 {
		return DefaultMaxConsecutiveFailures
	}
	return p.MaxConsecutiveFailures
}

// delay is the wait before the next poll after failures consecutive errors.
func (p *StatusPoller) delay(failures int) time.Duration {
	d, limit := p.interval(), p.maxInterval()
	for i := 0; i < failures && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}

// Run polls immediately and then on schedule until ctx is done, the budget
// of consecutive failures is spent, or a subscribed status is seen with
// StopWhenSubscribed set.
func (p *StatusPoller) Run(ctx context.Context) error {
	failures := 0
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		status, err := p.Checker.CheckSubscription(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			if p.OnError != nil {
				p.OnError(err, failures)
			}
			if failures >= p.maxFailures() {
				return fmt.Errorf("%w: %w", ErrTooManyFailures, err)
			}
			timer.Reset(p.delay(failures))
			continue
		}

		failures = 0
		if p.OnStatus != nil {
			p.OnStatus(status)
		}
		if p.StopWhenSubscribed && status.Subscribed {
			return nil
		}
		timer.Reset(p.interval())
	}
}
