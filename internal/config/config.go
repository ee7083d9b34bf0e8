// Package config loads service configuration from the environment under the
// SKYPOINT_ prefix.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the full service configuration.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Catalog source precedence: path, then URL, then the builtin set.
	CatalogPath string `envconfig:"CATALOG_PATH"`
	CatalogURL  string `envconfig:"CATALOG_URL"`

	AuthEnabled bool   `envconfig:"AUTH_ENABLED" default:"false"`
	AuthToken   string `envconfig:"AUTH_TOKEN"`

	// Worker pool size for full-sky snapshots; 0 means runtime.NumCPU().
	SnapshotWorkers int `envconfig:"SNAPSHOT_WORKERS" default:"0"`

	StreamMaxConcurrentPerIP int           `envconfig:"STREAM_MAX_CONCURRENT" default:"10"`
	StreamKeepaliveInterval  time.Duration `envconfig:"STREAM_KEEPALIVE_INTERVAL" default:"30s"`
	TrustProxy               bool          `envconfig:"TRUST_PROXY" default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("SKYPOINT", &cfg); err != nil {
		return cfg, fmt.Errorf("processing environment: %w", err)
	}

	if cfg.AuthEnabled && cfg.AuthToken == "" {
		return cfg, fmt.Errorf("SKYPOINT_AUTH_TOKEN is required when auth is enabled")
	}
	if cfg.StreamMaxConcurrentPerIP < 1 {
		return cfg, fmt.Errorf("SKYPOINT_STREAM_MAX_CONCURRENT must be at least 1")
	}
	if cfg.StreamKeepaliveInterval < time.Second {
		return cfg, fmt.Errorf("SKYPOINT_STREAM_KEEPALIVE_INTERVAL must be at least 1s")
	}

	return cfg, nil
}
