package cache

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/pkg/config"
)

func newStore(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (Store, error) {
	if cfg.Redis.URL == "" {
		log.Infow("redis url not set, using in-process cache")
		return NewMemory(), nil
	}
	r, err := NewRedis(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	log.Infow("connected to redis")
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return r.Close() }})
	return r, nil
}

var Module = fx.Options(
	fx.Provide(newStore),
)
