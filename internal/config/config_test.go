package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACK_END_SERVER_URL", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("CHECKOUT_REDIRECT_DELAY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.Equal(t, 1500*time.Millisecond, cfg.Checkout.RedirectDelay)
	assert.Equal(t, uint32(3), cfg.API.BreakerMinRequests)
	assert.InDelta(t, 0.6, cfg.API.BreakerFailureRatio, 1e-9)
	assert.NotEmpty(t, cfg.Session.FilePath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACK_END_SERVER_URL", "https://api.example.com/")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("CHECKOUT_REDIRECT_DELAY", "2s")
	t.Setenv("BREAKER_OPEN_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 4, cfg.Redis.DB)
	assert.Equal(t, 2*time.Second, cfg.Checkout.RedirectDelay)
	assert.Equal(t, 30*time.Second, cfg.API.BreakerOpenTimeout, "invalid duration falls back to default")
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "cookies")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown session backend")
}

func TestLoadRejectsBadFailureRatio(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("BREAKER_FAILURE_RATIO", "1.5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveMinRequests(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")

	for _, v := range []string{"0", "-1"} {
		t.Setenv("BREAKER_MIN_REQUESTS", v)
		_, err := Load()
		assert.ErrorContains(t, err, "breaker min requests", v)
	}
}
