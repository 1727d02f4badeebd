package telemetry

import (
	"errors"
	"runtime"
	"syscall"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serverless/compose/internal/components"
	composeerrors "github.com/serverless/compose/pkg/errors"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = orig })
}

func TestGenerate(t *testing.T) {
	withEnv(t, map[string]string{})

	p := Generate(Input{
		Configuration: map[string]any{
			"services": map[string]any{
				"api":       map[string]any{"path": "api", "dependsOn": "resources", "params": map[string]any{"k": "v"}},
				"resources": map[string]any{"path": "resources"},
			},
		},
		Options:       map[string]any{"_": []string{"deploy"}, "stage": "prod", "verbose": true, "region": "secret"},
		Command:       "deploy",
		ComponentName: "api",
		Stage:         "prod",
		Verbose:       true,
		Version:       "1.2.3",
		Outcomes: []components.Outcome{
			{Component: "resources", Status: components.StatusSuccess},
			{Component: "api", Status: components.StatusFailure},
		},
	})

	_, err := uuid.Parse(p.ID)
	require.NoError(t, err)
	assert.False(t, p.Timestamp.IsZero())
	assert.Equal(t, "1.2.3", p.Version)
	assert.Equal(t, Runtime{Go: runtime.Version(), OS: runtime.GOOS, Arch: runtime.GOARCH}, p.Runtime)
	assert.False(t, p.CI)
	assert.Equal(t, "prod", p.Stage)
	assert.True(t, p.Verbose)
	assert.Equal(t, "deploy", p.Command)
	assert.True(t, p.HasComponentName)
	assert.Equal(t, []string{"region", "stage", "verbose"}, p.Options)
	assert.Equal(t, ComponentStats{Count: 2, WithDependsOn: 1, WithParams: 1}, p.Components)
	assert.Equal(t, OutcomeStats{Success: 1, Failure: 1}, p.Outcomes)
	assert.Empty(t, p.ErrorCode)
	assert.Empty(t, p.Signal)
}

func TestGenerate_EmptyInput(t *testing.T) {
	withEnv(t, map[string]string{})

	p := Generate(Input{})

	assert.NotEmpty(t, p.ID)
	assert.False(t, p.HasComponentName)
	assert.Empty(t, p.Options)
	assert.Equal(t, ComponentStats{}, p.Components)
	assert.Equal(t, OutcomeStats{}, p.Outcomes)
}

func TestGenerate_ErrorAndSignal(t *testing.T) {
	withEnv(t, map[string]string{})

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "domain error", err: composeerrors.New(composeerrors.ErrCodeMissingEnvVariable, "missing"), expected: "MISSING_ENV_VARIABLE"},
		{name: "plain error", err: errors.New("boom"), expected: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Generate(Input{Error: tt.err, Signal: syscall.SIGINT})
			assert.Equal(t, tt.expected, p.ErrorCode)
			assert.Equal(t, syscall.SIGINT.String(), p.Signal)
		})
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, Generate(Input{}).ID, Generate(Input{}).ID)
}

func TestIsCI(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		expected bool
	}{
		{name: "no variables", env: map[string]string{}, expected: false},
		{name: "generic CI", env: map[string]string{"CI": "true"}, expected: true},
		{name: "github actions", env: map[string]string{"GITHUB_ACTIONS": "true"}, expected: true},
		{name: "explicitly false", env: map[string]string{"CI": "false"}, expected: false},
		{name: "empty", env: map[string]string{"CI": ""}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, tt.env)
			assert.Equal(t, tt.expected, isCI())
		})
	}
}
