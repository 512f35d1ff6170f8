package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/styler/internal/app/api/server"
	notificationhandler "github.com/fatflowers/styler/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/styler/internal/app/service/notification_log"
	"github.com/fatflowers/styler/internal/app/service/statistics"
	"github.com/fatflowers/styler/internal/app/service/stylist"
	"github.com/fatflowers/styler/internal/app/service/subscription"
	"github.com/fatflowers/styler/internal/app/service/sweeper"
	"github.com/fatflowers/styler/internal/platform/cache"
	"github.com/fatflowers/styler/internal/platform/db"
	"github.com/fatflowers/styler/internal/platform/gateway"
	"github.com/fatflowers/styler/internal/platform/genai"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/logger"
	"github.com/fatflowers/styler/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 40 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	cache.Module,
	gateway.Module,
	genai.Module,
	server.Module,
	subscription.Module,
	statistics.Module,
	notificationlog.Module,
	notificationhandler.Module,
	stylist.Module,
	sweeper.Module,
)
