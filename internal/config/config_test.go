package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, ":5000", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./data/journal.db", cfg.Database.Path)
	assert.Equal(t, "rest", cfg.Market.Source)
	assert.Equal(t, 5, cfg.Market.Limit)
	assert.Equal(t, 6*time.Second, cfg.Market.Timeout)
	assert.Empty(t, cfg.Events.AMQPURL)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 8080
database:
  driver: postgres
  host: db
  user: journal
  password: "p@ss word"
  dbname: trades
market:
  source: static
  limit: 3
coach:
  model: local-model
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("TRADEJOURNAL_SERVER_PORT", "9090")
	t.Setenv("TRADEJOURNAL_COACH_API_KEY", "secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://journal:p%40ss%20word@db:5432/trades?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "static", cfg.Market.Source)
	assert.Equal(t, 3, cfg.Market.Limit)
	assert.Equal(t, "local-model", cfg.Coach.Model)
	assert.Equal(t, "secret", cfg.Coach.APIKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("database:\n  driver: mysql\n"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LogConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{}.SlogLevel())
}
