package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serverless/compose/internal/components"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("1.2.3")

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, components.DefaultFrameworkBinary, cfg.FrameworkBinary)
	assert.Equal(t, components.DefaultMaxConcurrency, cfg.MaxConcurrency)
	assert.False(t, cfg.TelemetryDisabled)
	assert.Empty(t, cfg.TelemetryURL)
	assert.Contains(t, cfg.TelemetryDir, "serverless-compose")
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name: "no environment",
			env:  map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, NewConfig("dev").FrameworkBinary, cfg.FrameworkBinary)
				assert.False(t, cfg.TelemetryDisabled)
			},
		},
		{
			name: "telemetry disabled",
			env:  map[string]string{EnvTelemetryDisabled: "1"},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.TelemetryDisabled)
			},
		},
		{
			name: "empty disable flag is ignored",
			env:  map[string]string{EnvTelemetryDisabled: ""},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.TelemetryDisabled)
			},
		},
		{
			name: "telemetry directory",
			env:  map[string]string{EnvTelemetryDir: "/tmp/compose-telemetry"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/compose-telemetry", cfg.TelemetryDir)
			},
		},
		{
			name: "telemetry url and framework binary",
			env: map[string]string{
				EnvTelemetryURL:    "https://telemetry.example.com",
				EnvFrameworkBinary: "/usr/local/bin/sls",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://telemetry.example.com", cfg.TelemetryURL)
				assert.Equal(t, "/usr/local/bin/sls", cfg.FrameworkBinary)
			},
		},
		{
			name: "max concurrency",
			env:  map[string]string{EnvMaxConcurrency: "3"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3, cfg.MaxConcurrency)
			},
		},
		{
			name: "invalid max concurrency keeps default",
			env:  map[string]string{EnvMaxConcurrency: "many"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, components.DefaultMaxConcurrency, cfg.MaxConcurrency)
			},
		},
		{
			name: "zero max concurrency keeps default",
			env:  map[string]string{EnvMaxConcurrency: "0"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, components.DefaultMaxConcurrency, cfg.MaxConcurrency)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			}
			tt.validate(t, loadConfig("dev", lookup))
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvFrameworkBinary, "sls-test")
	t.Setenv(EnvTelemetryDisabled, "true")

	cfg := LoadConfigFromEnv("0.1.0")
	assert.Equal(t, "sls-test", cfg.FrameworkBinary)
	assert.True(t, cfg.TelemetryDisabled)
	assert.Equal(t, "0.1.0", cfg.Version)
}
