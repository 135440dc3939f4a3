// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Port is the listening port; hosting platforms set PORT.
	Port string `env:"PORT" envDefault:"10000"`
	// ListenAddr overrides the ":<Port>" bind address when set.
	ListenAddr string `env:"RELAY_LISTEN_ADDR"`
	DBPath     string `env:"RELAY_DB_PATH" envDefault:"relay.db"`

	KeyTTL          time.Duration `env:"RELAY_KEY_TTL" envDefault:"30m"`
	SweepInterval   time.Duration `env:"RELAY_SWEEP_INTERVAL" envDefault:"5m"`
	ExportRetention time.Duration `env:"RELAY_EXPORT_RETENTION" envDefault:"30m"`

	UpstreamTimeout  time.Duration `env:"RELAY_UPSTREAM_TIMEOUT" envDefault:"30s"`
	UploadURL        string        `env:"RELAY_UPLOAD_URL" envDefault:"https://data.roblox.com/Data/Upload.ashx"`
	AssetDeliveryURL string        `env:"RELAY_ASSET_DELIVERY_URL" envDefault:"https://assetdelivery.roblox.com/v1/asset/"`
	CacheMaxBytes    int64         `env:"RELAY_CACHE_MAX_BYTES" envDefault:"33554432"`

	MaxBodyBytes int64         `env:"RELAY_MAX_BODY_BYTES" envDefault:"52428800"`
	RateLimit    int           `env:"RELAY_RATE_LIMIT" envDefault:"100"`
	RateWindow   time.Duration `env:"RELAY_RATE_WINDOW" envDefault:"15m"`

	// LenientProperties renders unknown property types as strings instead of
	// rejecting the export.
	LenientProperties bool `env:"RELAY_LENIENT_PROPERTIES" envDefault:"false"`
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional. RELAY_RATE_LIMIT=0 disables rate limiting.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":" + cfg.Port
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RELAY_KEY_TTL", cfg.KeyTTL},
		{"RELAY_SWEEP_INTERVAL", cfg.SweepInterval},
		{"RELAY_EXPORT_RETENTION", cfg.ExportRetention},
		{"RELAY_UPSTREAM_TIMEOUT", cfg.UpstreamTimeout},
		{"RELAY_RATE_WINDOW", cfg.RateWindow},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration, got %s", d.name, d.value)
		}
	}

	if cfg.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("RELAY_MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	if cfg.CacheMaxBytes <= 0 {
		return nil, fmt.Errorf("RELAY_CACHE_MAX_BYTES must be positive, got %d", cfg.CacheMaxBytes)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("RELAY_RATE_LIMIT must not be negative, got %d", cfg.RateLimit)
	}

	return &cfg, nil
}
