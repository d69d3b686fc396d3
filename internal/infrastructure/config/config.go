package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Sync      SyncConfig
}

// ServerConfig holds HTTP server configuration. The backend serves a local
// desktop frontend, so it binds loopback by default.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8157"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// StorageConfig holds persistence configuration. An empty Dir resolves to
// the per-user OS configuration directory.
type StorageConfig struct {
	Dir string `envconfig:"CONFIG_DIR" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// SyncConfig holds WebDAV auto-sync configuration. Schedule is a cron
// expression; empty disables scheduled pushes.
type SyncConfig struct {
	Schedule string `envconfig:"SYNC_SCHEDULE" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8157",
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Sync: SyncConfig{},
	}
}
