package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "topsecret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "topsecret-csrf", cfg.CSRFSecret)
	assert.Equal(t, time.Hour, cfg.CSRFTTL)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.QuietStartup)
}

func TestLoadConfigDurations(t *testing.T) {
	t.Setenv("CSRF_TTL", "15m")
	t.Setenv("JWT_TTL", "3600")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.CSRFTTL)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestGetDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("CSRF_TTL", "soon")
	assert.Equal(t, time.Minute, getDuration("CSRF_TTL", time.Minute))
}

func TestLoadConfigQuietStartup(t *testing.T) {
	t.Setenv("QUIET_STARTUP", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.QuietStartup)
}
