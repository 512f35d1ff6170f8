package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/styler/pkg/types"
)

func TestNew_DefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_CONFIG_NAME", "does-not-exist")
	t.Setenv("APP_GATEWAY_KEY_ID", "rzp_test_key")
	t.Setenv("APP_GATEWAY_KEY_SECRET", "secret")
	t.Setenv("APP_SERVER_PORT", "9999")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, 9999, c.Server.Port)
	require.Equal(t, "rzp_test_key", c.Gateway.KeyID)
	require.True(t, c.Gateway.Configured())
	require.Equal(t, time.Hour, c.Sweeper.Interval)
	require.Equal(t, 24*time.Hour, c.Sweeper.PendingTTL)
	require.Equal(t, 10, c.GenAI.MaxHistory)
}

func TestNew_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "styler.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
env: prod
database:
  driver: sqlite
  dsn: "file::memory:"
sweeper:
  interval: 15m
plans:
  - plan: styler_plus
    amount: 5900
    currency: INR
    period: monthly
admin:
  accounts:
    ops: hunter2
`), 0o600))
	t.Setenv("APP_CONFIG_FILE", file)

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvProd, c.Env)
	require.Equal(t, DBDriverSQLite, c.Database.Driver)
	require.Equal(t, 15*time.Minute, c.Sweeper.Interval)
	require.Equal(t, "hunter2", c.Admin.Accounts["ops"])

	item, err := c.GetPlanItem(types.PlanStylerPlus)
	require.NoError(t, err)
	require.EqualValues(t, 5900, item.Amount)

	// the annual plan is not in the overridden table
	_, err = c.GetPlanItem(types.PlanStylerPlusAnnual)
	require.True(t, errors.Is(err, types.ErrInvalidPlan))
}

func TestGetPlanItem_DefaultTable(t *testing.T) {
	c := &Config{}

	item, err := c.GetPlanItem(types.PlanStylerPlus)
	require.NoError(t, err)
	require.EqualValues(t, 4900, item.Amount)
	require.Equal(t, "INR", item.Currency)

	item, err = c.GetPlanItem(types.PlanStylerPlusAnnual)
	require.NoError(t, err)
	require.Equal(t, types.BillingPeriodAnnual, item.Period)

	_, err = c.GetPlanItem(types.PlanFree)
	require.True(t, errors.Is(err, types.ErrInvalidPlan))
}
