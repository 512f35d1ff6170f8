package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/docs"
	"github.com/fatflowers/styler/internal/app/api/handlers"
	mw "github.com/fatflowers/styler/internal/app/api/middleware"
	nh "github.com/fatflowers/styler/internal/app/service/notification_handler"
	"github.com/fatflowers/styler/internal/app/service/statistics"
	"github.com/fatflowers/styler/internal/app/service/stylist"
	subsvc "github.com/fatflowers/styler/internal/app/service/subscription"
	cfgpkg "github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request logger & access log are attached per group in registerRoutes.
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Engine    *gin.Engine
	Log       *zap.SugaredLogger
	Cfg       *cfgpkg.Config
	DB        *gorm.DB
	Notif     *nh.NotificationHandler
	Sub       *subsvc.Service
	Stats     *statistics.Service
	Stylist   *stylist.Service
	Lifecycle fx.Lifecycle
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Cfg

	if cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{Subsystem: "styler", Logger: log})
		p.Use(r)
		serveMetrics(d.Lifecycle, log, p.Server(cfg.MetricsAddr))
	}

	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterHealthRoutes(pub, d.DB)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	fn := r.Group("/functions/v1")
	fn.Use(mw.CORSMiddleware(), mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterFunctionRoutes(fn, mw.AuthMiddleware(cfg.Auth, log), d.Sub, d.Stylist, log)
	handlers.RegisterPaymentWebhookRoutes(fn, d.Notif)

	if len(cfg.Admin.Accounts) == 0 {
		log.Warnw("admin accounts not configured; admin APIs disabled")
		return
	}
	admin := r.Group("/api/v1/admin")
	admin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log), gin.BasicAuth(gin.Accounts(cfg.Admin.Accounts)))
	handlers.RegisterAdminRoutes(admin, d.Sub, d.Stats, cfg)
}

func serveMetrics(lc fx.Lifecycle, log *zap.SugaredLogger, srv *http.Server) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("metrics started", "addr", srv.Addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("metrics server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func runServer(lc fx.Lifecycle, sd fx.Shutdowner, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("server error", "error", err)
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
