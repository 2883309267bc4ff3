package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultUploadDir, cfg.Upload.Dir)

	assert.Empty(t, cfg.Summary.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Summary.Cooldown)
	assert.False(t, cfg.SummaryFill.Enabled)
	assert.Equal(t, "0 * * * *", cfg.SummaryFill.Schedule)

	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)

	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/data/books.db")
	t.Setenv("SUMMARY_API_KEY", "test-key")
	t.Setenv("SUMMARY_COOLDOWN", "10s")
	t.Setenv("AUTH_MODE", "local")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/data/books.db", cfg.Database.Path)
	assert.Equal(t, "test-key", cfg.Summary.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Summary.Cooldown)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
}
