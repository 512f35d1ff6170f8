// Package sweeper runs the periodic subscription sweep in process.
package sweeper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/pkg/config"
)

type Sweepable interface {
	Sweep(ctx context.Context, pendingTTL time.Duration) (*subscription.SweepResult, error)
}

type Sweeper struct {
	target     Sweepable
	interval   time.Duration
	pendingTTL time.Duration
	log        *zap.SugaredLogger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(target Sweepable, interval, pendingTTL time.Duration, log *zap.SugaredLogger) *Sweeper {
	return &Sweeper{target: target, interval: interval, pendingTTL: pendingTTL, log: log}
}

// Start launches the loop; the first pass runs after one interval.
// Calling Start on a running sweeper is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

// Stop cancels the loop, including a pass in flight, and waits for it to
// exit or for ctx to end.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass and logs the outcome.
func (s *Sweeper) RunOnce(ctx context.Context) *subscription.SweepResult {
	start := time.Now()
	res, err := s.target.Sweep(ctx, s.pendingTTL)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Errorw("sweep_failed", "error", err)
		}
		return nil
	}
	s.log.Debugw("sweep_done", "abandoned", res.Abandoned, "expired", res.Expired, "took", time.Since(start))
	return res
}

func newSweeper(sub *subscription.Service, cfg *config.Config, log *zap.SugaredLogger) *Sweeper {
	return New(sub, cfg.Sweeper.Interval, cfg.Sweeper.PendingTTL, log)
}

func register(lc fx.Lifecycle, s *Sweeper, cfg *config.Config, log *zap.SugaredLogger) {
	if !cfg.Sweeper.Enabled || cfg.Sweeper.Interval <= 0 {
		log.Infow("subscription sweeper disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("subscription sweeper started", "interval", cfg.Sweeper.Interval, "pending_ttl", cfg.Sweeper.PendingTTL)
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}

var Module = fx.Options(
	fx.Provide(newSweeper),
	fx.Invoke(register),
)
