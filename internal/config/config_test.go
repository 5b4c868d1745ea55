package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaultsAndUnits(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  mode: debug
session:
  ttl_hours: 2
  hash_key: dev
reset:
  secret: dev
  max_age_minutes: 10
storage:
  type: local
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Reset.MaxAge)
	assert.Equal(t, 20, cfg.Quiz.LeaderboardSize)
	assert.True(t, cfg.Quiz.ExposeAnswerKeys)
	assert.False(t, cfg.Quiz.AllowEmptyBank)
	assert.DirExists(t, uploads)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
storage:
  type: minio
`)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("RESET_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Reset.Secret)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short secrets in release", "server:\n  mode: release\nreset:\n  secret: short\nsession:\n  hash_key: short\n"},
		{"unknown driver", "database:\n  driver: oracle\n"},
		{"unknown session store", "session:\n  store: file\n"},
		{"zero leaderboard", "quiz:\n  leaderboard_size: 0\n"},
		{"zero rate limit", "rate_limit:\n  max_requests: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body+"storage:\n  type: oss\n"))
			assert.Error(t, err)
		})
	}
}
