package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/internal/platform/cache"
	"github.com/fatflowers/styler/internal/platform/db"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/logger"
)

// env wires the subscription service without the HTTP server so sweeps can
// run from cron or by hand.
type env struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	sub   *subscription.Service
	close func()
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := db.NewDB(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if c.Bool("migrate") {
		if err := db.AutoMigrate(log, gdb); err != nil {
			return nil, err
		}
	}

	var store cache.Store = cache.NewMemory()
	closers := []func(){func() { _ = log.Sync() }}
	if cfg.Redis.URL != "" {
		r, err := cache.NewRedis(c.Context, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		store = r
		closers = append(closers, func() { _ = r.Close() })
	}
	if sqlDB, err := gdb.DB(); err == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}

	sub := subscription.NewService(gdb, cfg, store, gateway.NewHTTPClient(cfg.Gateway, nil), nil, log)
	return &env{
		cfg: cfg,
		log: log,
		sub: sub,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func abandonPendingCommand(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.close()

	ttl := c.Duration("ttl")
	if ttl <= 0 {
		ttl = e.cfg.Sweeper.PendingTTL
	}
	n, err := e.sub.AbandonStalePending(c.Context, ttl)
	if err != nil {
		return fmt.Errorf("abandon pending: %w", err)
	}
	e.log.Infow("abandon_pending_done", "abandoned", n, "ttl", ttl)
	return printJSON(&subscription.SweepResult{Abandoned: n})
}

func expireOverdueCommand(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.close()

	n, err := e.sub.ExpireOverdue(c.Context)
	if err != nil {
		return fmt.Errorf("expire overdue: %w", err)
	}
	e.log.Infow("expire_overdue_done", "expired", n)
	return printJSON(&subscription.SweepResult{Expired: n})
}

func sweepCommand(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.close()

	ttl := c.Duration("ttl")
	if ttl <= 0 {
		ttl = e.cfg.Sweeper.PendingTTL
	}
	res, err := e.sub.Sweep(c.Context, ttl)
	if err != nil {
		return err
	}
	e.log.Infow("sweep_done", "abandoned", res.Abandoned, "expired", res.Expired)
	return printJSON(res)
}

func main() {
	ttlFlag := &cli.DurationFlag{
		Name:  "ttl",
		Usage: "age after which pending checkouts are abandoned (default: sweeper.pending_ttl)",
	}

	app := &cli.App{
		Name:  "styler-sweeper",
		Usage: "Run subscription maintenance against the configured database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "run schema migrations before sweeping",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "abandon-pending",
				Usage:  "Mark pending checkouts older than --ttl as abandoned",
				Flags:  []cli.Flag{ttlFlag},
				Action: abandonPendingCommand,
			},
			{
				Name:   "expire-overdue",
				Usage:  "Expire active subscriptions whose period has ended",
				Action: expireOverdueCommand,
			},
			{
				Name:   "all",
				Usage:  "Run both sweeps",
				Flags:  []cli.Flag{ttlFlag},
				Action: sweepCommand,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
