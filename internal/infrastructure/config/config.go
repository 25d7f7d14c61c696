package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Glue      GlueConfig
	Script    ScriptConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// GlueConfig holds bridge and marshalling configuration.
type GlueConfig struct {
	// HasPropertyWorkaround skips existence checks on indexed properties
	HasPropertyWorkaround bool `envconfig:"GLUE_HASPROPERTY_WORKAROUND" default:"false"`
	// MissingIndex is "absent", "undefined" or "null"
	MissingIndex string `envconfig:"GLUE_MISSING_INDEX" default:"absent"`
	// WideEncoding is "utf-16", "utf-32" or empty for the platform default
	WideEncoding string `envconfig:"GLUE_WIDE_ENCODING" default:""`
	Profile      bool   `envconfig:"GLUE_PROFILE" default:"false"`
	// Manifest is a glob of graph manifests; empty uses the built-in one
	Manifest string `envconfig:"GLUE_MANIFEST" default:""`
}

// ScriptConfig holds scripting host configuration.
type ScriptConfig struct {
	Timeout       time.Duration `envconfig:"SCRIPT_TIMEOUT" default:"5s"`
	MaxAllocBytes int           `envconfig:"SCRIPT_MAX_ALLOC" default:"1048576"`
	EnableConsole bool          `envconfig:"SCRIPT_CONSOLE" default:"true"`
	PoolSize      int           `envconfig:"POOL_SIZE" default:"4"`
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
			Port: "8000",
			Host: "0.0.0.0",
		},
		Glue: GlueConfig{
			MissingIndex: "absent",
		},
		Script: ScriptConfig{
			Timeout:       5 * time.Second,
			MaxAllocBytes: 1 << 20,
			EnableConsole: true,
			PoolSize:      4,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
