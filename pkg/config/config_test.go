package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Jobs.AutoReplenishHour)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Jobs.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Jobs.TemperatureInterval)
	assert.Equal(t, 20, cfg.Replenishment.ExtraQty)
	assert.Equal(t, 3, cfg.Replenishment.DefaultLeadTimeDays)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JOBS_TEMPERATURE_INTERVAL", "45")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 45*time.Second, cfg.Jobs.TemperatureInterval)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_ProductionSinSecretFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "scm", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/scm?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
