package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
sentry_enabled = false
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "liftstats"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
workouts_rate_limit_allowed_per_min = 60

[production]
host = "localhost"
port = 9001
log_level = "debug"
logs_path = "/var/log/liftstats/service.log"
log_to_stdout = false
sentry_enabled = true
postgres_host = "db.internal"
postgres_port = "5432"
postgres_db_name = "liftstats"
redis_host = "redis.internal"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
workouts_rate_limit_allowed_per_min = 30
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigToml), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.False(t, cfg.SentryEnabled)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, 60, cfg.WorkoutsRateLimitAllowedPerMin)
}

func TestLoad_Production(t *testing.T) {
	// short env aliases work too
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, "/var/log/liftstats/service.log", cfg.LogsPath)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, 30, cfg.WorkoutsRateLimitAllowedPerMin)
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown env")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("development", "/no/such/config.toml")
	require.Error(t, err)
}
