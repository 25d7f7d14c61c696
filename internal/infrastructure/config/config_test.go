package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Glue config
	assert.False(t, cfg.Glue.HasPropertyWorkaround)
	assert.Equal(t, "absent", cfg.Glue.MissingIndex)
	assert.Empty(t, cfg.Glue.WideEncoding)
	assert.Empty(t, cfg.Glue.Manifest)

	// Script config
	assert.Equal(t, 5*time.Second, cfg.Script.Timeout)
	assert.Equal(t, 1<<20, cfg.Script.MaxAllocBytes)
	assert.True(t, cfg.Script.EnableConsole)
	assert.Equal(t, 4, cfg.Script.PoolSize)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                        "9000",
		"HOST":                        "127.0.0.1",
		"GLUE_HASPROPERTY_WORKAROUND": "true",
		"GLUE_MISSING_INDEX":          "undefined",
		"GLUE_WIDE_ENCODING":          "utf-16",
		"GLUE_PROFILE":                "true",
		"GLUE_MANIFEST":               "plugins/**/*.yaml",
		"SCRIPT_TIMEOUT":              "250ms",
		"SCRIPT_MAX_ALLOC":            "4096",
		"SCRIPT_CONSOLE":              "false",
		"POOL_SIZE":                   "2",
		"LOG_LEVEL":                   "debug",
		"LOG_DEV":                     "true",
		"RATE_LIMIT_RPS":              "500",
		"RATE_LIMIT_BURST":            "1000",
		"RATE_LIMIT_ENABLED":          "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	assert.True(t, cfg.Glue.HasPropertyWorkaround)
	assert.Equal(t, "undefined", cfg.Glue.MissingIndex)
	assert.Equal(t, "utf-16", cfg.Glue.WideEncoding)
	assert.True(t, cfg.Glue.Profile)
	assert.Equal(t, "plugins/**/*.yaml", cfg.Glue.Manifest)

	assert.Equal(t, 250*time.Millisecond, cfg.Script.Timeout)
	assert.Equal(t, 4096, cfg.Script.MaxAllocBytes)
	assert.False(t, cfg.Script.EnableConsole)
	assert.Equal(t, 2, cfg.Script.PoolSize)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("GLUE_MISSING_INDEX", "null")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "null", cfg.Glue.MissingIndex)

	// Verify default values still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5*time.Second, cfg.Script.Timeout)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "SCRIPT_TIMEOUT", "soon"},
		{"bad bool", "GLUE_PROFILE", "maybe"},
		{"bad int", "POOL_SIZE", "four"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantPort string
		wantHost string
	}{
		{name: "default values", wantPort: "8000", wantHost: "0.0.0.0"},
		{name: "custom port", port: "9000", wantPort: "9000", wantHost: "0.0.0.0"},
		{name: "custom host", host: "localhost", wantPort: "8000", wantHost: "localhost"},
		{name: "custom port and host", port: "3000", host: "127.0.0.1", wantPort: "3000", wantHost: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean environment
			os.Unsetenv("PORT")
			os.Unsetenv("HOST")

			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, tt.wantHost, cfg.Server.Host)
		})
	}
}
