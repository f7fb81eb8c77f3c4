package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.AdminSessionTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.BackendURL)
}

func TestOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":             "9090",
		"BACKEND_URL":      "https://api.heritagebynn.pk/api/",
		"REDIS_DB":         "2",
		"REQUEST_TIMEOUT":  "3s",
		"ALLOWED_ORIGINS":  "https://heritagebynn.pk, https://admin.heritagebynn.pk ,",
		"RATE_LIMIT_RPS":   "0.5",
		"RATE_LIMIT_BURST": "3",
		"SECURE_COOKIE":    "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "https://api.heritagebynn.pk/api", cfg.BackendURL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://heritagebynn.pk", "https://admin.heritagebynn.pk"}, cfg.AllowedOrigins)
	assert.InDelta(t, 0.5, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.True(t, cfg.SecureCookie)
}

func TestBadValuesAreReported(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"REDIS_DB": "two", "REQUEST_TIMEOUT": "soon"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestValidate(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}
