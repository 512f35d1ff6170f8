package genai

import (
	"go.uber.org/fx"

	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/metrics"
)

func newClient(cfg *config.Config, m *metrics.Business) Client {
	return NewHTTPClient(cfg.GenAI, m)
}

var Module = fx.Options(
	fx.Provide(newClient),
)
