package db

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/models"
	cfgpkg "github.com/fatflowers/styler/pkg/config"
	gormzap "github.com/fatflowers/styler/pkg/gormlog"
)

// Open connects with the configured driver. SQLite is meant for local
// development and tests; production runs on Postgres.
func Open(l *zap.SugaredLogger, cfg cfgpkg.DBConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	var dialector gorm.Dialector
	switch cfg.Driver {
	case cfgpkg.DBDriverPostgres, "":
		dialector = postgres.Open(cfg.DSN)
	case cfgpkg.DBDriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormzap.New(l)})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	if cfg.Driver == cfgpkg.DBDriverSQLite {
		// one writer at a time; also keeps :memory: databases on one connection
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	l.Infow("connected to database", "driver", cfg.Driver)
	return gdb, nil
}

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	return Open(l, cfg.Database)
}

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&models.Subscription{},
		&models.Profile{},
		&models.SubscriptionLog{},
		&models.PaymentNotificationLog{},
	}
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)
