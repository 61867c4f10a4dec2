package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/timelane-go/internal/config"
	"github.com/AntonStoeckl/timelane-go/timelane"
)

func givenConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "timelane.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func givenEnv(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func Test_Default_IsValid(t *testing.T) {
	cfg := config.Default()

	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Stdout)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Postgres.Enabled)

	filter, err := cfg.Filter()
	require.NoError(t, err)
	assert.Equal(t, timelane.FilterAll, filter)
}

func Test_Load_WithoutPath_ReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, config.Default().Buffer, cfg.Buffer)
}

func Test_Load_ReadsYAMLOnTopOfDefaults(t *testing.T) {
	// arrange
	path := givenConfigFile(t, `
log:
  level: debug
  format: json
lane:
  filter: subscription
redis:
  enabled: true
  stream_key: lanes
  max_len: 500
buffer:
  flush_interval: 1s
server:
  addr: ":9090"
`)

	// act
	cfg, err := config.Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.FormatJSON, cfg.Log.Format)
	assert.Equal(t, "subscription", cfg.Lane.Filter)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr, "unset keys keep their default")
	assert.Equal(t, "lanes", cfg.Redis.StreamKey)
	assert.Equal(t, int64(500), cfg.Redis.MaxLen)
	assert.Equal(t, time.Second, cfg.Buffer.FlushInterval)
	assert.Equal(t, 100, cfg.Buffer.BatchSize)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func Test_Load_EmptyFile_ReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(givenConfigFile(t, ""))

	require.NoError(t, err)
	assert.Equal(t, config.Default().Server, cfg.Server)
}

func Test_Load_Failures(t *testing.T) {
	testCases := []struct {
		name     string
		path     func(t *testing.T) string
		expected error
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") }, config.ErrReadingConfigFailed},
		{"malformed yaml", func(t *testing.T) string { return givenConfigFile(t, "log: [") }, config.ErrParsingConfigFailed},
		{"unknown key", func(t *testing.T) string { return givenConfigFile(t, "unknown: true") }, config.ErrParsingConfigFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Load(tc.path(t))

			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func Test_ApplyEnv_OverridesValues(t *testing.T) {
	// arrange
	cfg := config.Default()

	// act
	err := cfg.ApplyEnv(givenEnv(map[string]string{
		"TIMELANE_LOG_LEVEL":             "warn",
		"TIMELANE_STDOUT":                "false",
		"TIMELANE_POSTGRES_ENABLED":      "true",
		"TIMELANE_POSTGRES_DRIVER":       "sqlx",
		"TIMELANE_REDIS_DB":              "2",
		"TIMELANE_REDIS_MAX_LEN":         "1000",
		"TIMELANE_BUFFER_FLUSH_INTERVAL": "50ms",
		"TIMELANE_METRICS_BACKEND":       "otel",
	}))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Stdout)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, config.DriverSQLX, cfg.Postgres.Driver)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, int64(1000), cfg.Redis.MaxLen)
	assert.Equal(t, 50*time.Millisecond, cfg.Buffer.FlushInterval)
	assert.Equal(t, config.MetricsOTel, cfg.Metrics.Backend)
}

func Test_ApplyEnv_InvalidValues_AreAllReported(t *testing.T) {
	// arrange
	cfg := config.Default()

	// act
	err := cfg.ApplyEnv(givenEnv(map[string]string{
		"TIMELANE_STDOUT":                "maybe",
		"TIMELANE_REDIS_DB":              "two",
		"TIMELANE_BUFFER_FLUSH_INTERVAL": "soon",
		"TIMELANE_REDIS_MAX_LEN":         "many",
	}))

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidEnvValue)
	assert.ErrorContains(t, err, "TIMELANE_STDOUT")
	assert.ErrorContains(t, err, "TIMELANE_REDIS_DB")
	assert.ErrorContains(t, err, "TIMELANE_BUFFER_FLUSH_INTERVAL")
	assert.ErrorContains(t, err, "TIMELANE_REDIS_MAX_LEN")
	assert.True(t, cfg.Stdout, "invalid values leave the setting untouched")
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *config.Config)
		message string
	}{
		{"log level", func(cfg *config.Config) { cfg.Log.Level = "trace" }, "log.level"},
		{"log format", func(cfg *config.Config) { cfg.Log.Format = "xml" }, "log.format"},
		{"filter", func(cfg *config.Config) { cfg.Lane.Filter = "values" }, "unknown axis"},
		{"redis addr", func(cfg *config.Config) { cfg.Redis.Enabled, cfg.Redis.Addr = true, "" }, "redis.addr"},
		{"redis stream key", func(cfg *config.Config) { cfg.Redis.Enabled, cfg.Redis.StreamKey = true, "" }, "redis.stream_key"},
		{"redis max len", func(cfg *config.Config) { cfg.Redis.Enabled, cfg.Redis.MaxLen = true, -1 }, "redis.max_len"},
		{"postgres driver", func(cfg *config.Config) { cfg.Postgres.Enabled, cfg.Postgres.Driver = true, "mysql" }, "postgres.driver"},
		{"postgres dsn", func(cfg *config.Config) { cfg.Postgres.Enabled, cfg.Postgres.DSN = true, "" }, "postgres.dsn"},
		{"postgres table", func(cfg *config.Config) { cfg.Postgres.Enabled, cfg.Postgres.Table = true, "" }, "postgres.table"},
		{"queue size", func(cfg *config.Config) { cfg.Buffer.QueueSize = 0 }, "buffer.queue_size"},
		{"batch size", func(cfg *config.Config) { cfg.Buffer.BatchSize = -1 }, "buffer.batch_size"},
		{"flush interval", func(cfg *config.Config) { cfg.Buffer.FlushInterval = 0 }, "buffer.flush_interval"},
		{"metrics backend", func(cfg *config.Config) { cfg.Metrics.Backend = "statsd" }, "metrics.backend"},
		{"server addr", func(cfg *config.Config) { cfg.Server.Addr = "" }, "server.addr"},
		{"shutdown timeout", func(cfg *config.Config) { cfg.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)

			err := cfg.Validate()

			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.ErrorContains(t, err, tc.message)
		})
	}
}

func Test_Validate_DisabledSinksAreNotChecked(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Addr = ""
	cfg.Postgres.Driver = "mysql"

	assert.NoError(t, cfg.Validate())
}
