package app

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/serverless/compose/internal/components"
	"github.com/serverless/compose/pkg/logging"
)

// Environment variables read by LoadConfigFromEnv.
const (
	EnvTelemetryDisabled = "SLS_TELEMETRY_DISABLED"
	EnvTelemetryURL      = "SLS_COMPOSE_TELEMETRY_URL"
	EnvTelemetryDir      = "SLS_COMPOSE_TELEMETRY_DIR"
	EnvFrameworkBinary   = "SLS_COMPOSE_FRAMEWORK_BIN"
	EnvMaxConcurrency    = "SLS_COMPOSE_MAX_CONCURRENCY"
)

// Config holds the process configuration that does not come from the
// command line.
type Config struct {
	// Version is reported in telemetry.
	Version string

	// Framework settings
	FrameworkBinary string
	MaxConcurrency  int

	// Telemetry settings
	TelemetryDisabled bool
	TelemetryURL      string
	// TelemetryDir is where payloads are stored before being sent.
	TelemetryDir string
}

// NewConfig returns a configuration with default values.
func NewConfig(version string) *Config {
	return &Config{
		Version:         version,
		FrameworkBinary: components.DefaultFrameworkBinary,
		MaxConcurrency:  components.DefaultMaxConcurrency,
		TelemetryDir:    defaultTelemetryDir(),
	}
}

// LoadConfigFromEnv returns the default configuration overridden by the
// environment.
func LoadConfigFromEnv(version string) *Config {
	return loadConfig(version, os.LookupEnv)
}

func loadConfig(version string, lookup func(string) (string, bool)) *Config {
	cfg := NewConfig(version)

	if v, ok := lookup(EnvTelemetryDisabled); ok && v != "" {
		cfg.TelemetryDisabled = true
	}
	if v, ok := lookup(EnvTelemetryURL); ok {
		cfg.TelemetryURL = v
	}
	if v, ok := lookup(EnvTelemetryDir); ok && v != "" {
		cfg.TelemetryDir = v
	}
	if v, ok := lookup(EnvFrameworkBinary); ok && v != "" {
		cfg.FrameworkBinary = v
	}
	if v, ok := lookup(EnvMaxConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			logging.Warn("Bootstrap", "Ignoring invalid %s=%q, using %d", EnvMaxConcurrency, v, cfg.MaxConcurrency)
		} else {
			cfg.MaxConcurrency = n
		}
	}
	return cfg
}

func defaultTelemetryDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "serverless-compose", "telemetry")
}
