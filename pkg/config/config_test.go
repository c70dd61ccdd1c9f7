package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_CONFIG_NAME", "storetis-config-that-does-not-exist")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, 8888, c.Server.Port)
	require.Equal(t, DBDriverPostgres, c.Database.Driver)
	require.Equal(t, []int{30, 90, 180, 365}, c.DurationChoices)
	require.Equal(t, 14*24*time.Hour, c.Checkout.DraftTTL)
	require.Equal(t, 7, c.ExpiringSoonDays)
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("APP_CONFIG_NAME", "storetis-config-that-does-not-exist")
	t.Setenv("APP_SERVER_PORT", "9999")
	t.Setenv("APP_REDIS_ADDR", "redis:6380")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, 9999, c.Server.Port)
	require.Equal(t, "redis:6380", c.Redis.Addr)
}

func TestNew_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_CONFIG_NAME", "storetis-config-that-does-not-exist")
	t.Setenv("APP_ENV", "prod")

	_, err := New()
	require.Error(t, err)
}

func TestConfig_ValidDuration(t *testing.T) {
	c := &Config{DurationChoices: []int{30, 90}}
	require.True(t, c.ValidDuration(30))
	require.False(t, c.ValidDuration(31))

	var nilCfg *Config
	require.False(t, nilCfg.ValidDuration(30))
}
