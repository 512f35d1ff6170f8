// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/styler/internal/platform/db"
	"github.com/fatflowers/styler/pkg/config"
)

// New returns a database private to t, closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	log := zap.NewNop().Sugar()
	gdb, err := db.Open(log, config.DBConfig{Driver: config.DBDriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(log, gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
