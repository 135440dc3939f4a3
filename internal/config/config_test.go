package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every env var that Load() reads.
var allConfigKeys = []string{
	"PORT",
	"RELAY_LISTEN_ADDR",
	"RELAY_DB_PATH",
	"RELAY_KEY_TTL",
	"RELAY_SWEEP_INTERVAL",
	"RELAY_EXPORT_RETENTION",
	"RELAY_UPSTREAM_TIMEOUT",
	"RELAY_UPLOAD_URL",
	"RELAY_ASSET_DELIVERY_URL",
	"RELAY_CACHE_MAX_BYTES",
	"RELAY_MAX_BODY_BYTES",
	"RELAY_RATE_LIMIT",
	"RELAY_RATE_WINDOW",
	"RELAY_LENIENT_PROPERTIES",
}

// isolateConfigEnv saves and unsets all config env vars so tests don't
// inherit values from the host environment.
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, ":10000", cfg.ListenAddr)
	assert.Equal(t, "relay.db", cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.KeyTTL)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.ExportRetention)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "https://data.roblox.com/Data/Upload.ashx", cfg.UploadURL)
	assert.Equal(t, "https://assetdelivery.roblox.com/v1/asset/", cfg.AssetDeliveryURL)
	assert.Equal(t, int64(50<<20), cfg.MaxBodyBytes)
	assert.Equal(t, int64(32<<20), cfg.CacheMaxBytes)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 15*time.Minute, cfg.RateWindow)
	assert.False(t, cfg.LenientProperties)
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("RELAY_DB_PATH", "/tmp/test.db")
	t.Setenv("RELAY_KEY_TTL", "10m")
	t.Setenv("RELAY_RATE_LIMIT", "0")
	t.Setenv("RELAY_LENIENT_PROPERTIES", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 10*time.Minute, cfg.KeyTTL)
	assert.Equal(t, 0, cfg.RateLimit)
	assert.True(t, cfg.LenientProperties)
}

func TestLoad_ListenAddrOverridesPort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("RELAY_LISTEN_ADDR", "127.0.0.1:9090")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("RELAY_KEY_TTL", "not-a-duration")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestLoad_NonPositiveDuration(t *testing.T) {
	tests := []string{
		"RELAY_KEY_TTL",
		"RELAY_SWEEP_INTERVAL",
		"RELAY_EXPORT_RETENTION",
		"RELAY_UPSTREAM_TIMEOUT",
		"RELAY_RATE_WINDOW",
	}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(key, "0s")

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NegativeRateLimit(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("RELAY_RATE_LIMIT", "-1")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RELAY_RATE_LIMIT")
}

func TestLoad_ZeroBodyLimit(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("RELAY_MAX_BODY_BYTES", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RELAY_MAX_BODY_BYTES")
}

func TestLoad_ZeroCacheLimit(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("RELAY_CACHE_MAX_BYTES", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RELAY_CACHE_MAX_BYTES")
}
