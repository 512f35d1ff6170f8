package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestShortCaller(t *testing.T) {
	require.Equal(t, "internal/platform/db/db.go:38", shortCaller("/Users/alex/styler/internal/platform/db/db.go:38"))
	require.Equal(t, "pkg/x/y.go:12", shortCaller("/srv/build/pkg/x/y.go:12"))
	require.Equal(t, "b/c/d.go:1", shortCaller("/a/b/c/d.go:1"))
	require.Equal(t, "", shortCaller(""))
}

func TestTrace_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core).Sugar())
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), sql, nil)
	require.Equal(t, 0, logs.Len(), "fast queries are not logged at warn level")

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("gorm_trace").Len())

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	require.Equal(t, 1, logs.FilterMessage("gorm_trace").Len(), "not found is expected and not an error")

	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 1, logs.FilterMessage("gorm_slow").Len())

	l.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), sql, nil)
	require.Equal(t, 1, logs.FilterMessage("gorm").Len())
}
