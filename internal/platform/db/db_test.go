package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/styler/internal/models"
	"github.com/fatflowers/styler/internal/platform/db"
	"github.com/fatflowers/styler/internal/platform/db/dbtest"
	"github.com/fatflowers/styler/pkg/config"
	"github.com/fatflowers/styler/pkg/types"
)

func TestOpen_RejectsBadConfig(t *testing.T) {
	log := zap.NewNop().Sugar()

	_, err := db.Open(log, config.DBConfig{Driver: config.DBDriverSQLite})
	require.Error(t, err)

	_, err = db.Open(log, config.DBConfig{Driver: "mongo", DSN: "x"})
	require.Error(t, err)
}

func TestAutoMigrate_OrderIDIsUnique(t *testing.T) {
	gdb := dbtest.New(t)

	sub := &models.Subscription{ID: "a", UserID: "u1", OrderID: "order_1", Plan: types.PlanStylerPlus, Status: types.SubscriptionStatusPending, Amount: 4900, Currency: "INR"}
	require.NoError(t, gdb.Create(sub).Error)

	dup := *sub
	dup.ID = "b"
	require.Error(t, gdb.Create(&dup).Error)
}
