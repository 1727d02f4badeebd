package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	composeerrors "github.com/serverless/compose/pkg/errors"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		stage    string
		env      map[string]string
		input    map[string]any
		expected map[string]any
	}{
		{
			name:     "stage embedded in a string",
			stage:    "prod",
			input:    map[string]any{"a": "${sls:stage}-x"},
			expected: map[string]any{"a": "prod-x"},
		},
		{
			name:     "env placeholder as whole value",
			env:      map[string]string{"FOO": "bar"},
			input:    map[string]any{"a": "${env:FOO}"},
			expected: map[string]any{"a": "bar"},
		},
		{
			name:     "env name stops at the next colon",
			env:      map[string]string{"FOO": "bar"},
			input:    map[string]any{"a": "${env:FOO:fallback}"},
			expected: map[string]any{"a": "bar"},
		},
		{
			name:  "nested mappings and sequences",
			stage: "dev",
			env:   map[string]string{"REGION": "eu-west-1"},
			input: map[string]any{
				"services": map[string]any{
					"api": map[string]any{
						"path": "api",
						"params": map[string]any{
							"region": "${env:REGION}",
							"tags":   []any{"${sls:stage}", 3, true, nil},
						},
					},
				},
			},
			expected: map[string]any{
				"services": map[string]any{
					"api": map[string]any{
						"path": "api",
						"params": map[string]any{
							"region": "eu-west-1",
							"tags":   []any{"dev", 3, true, nil},
						},
					},
				},
			},
		},
		{
			name:     "placeholder revealed by a substitution",
			stage:    "prod",
			env:      map[string]string{"NAME": "${sls:stage}"},
			input:    map[string]any{"a": "app-${env:NAME}"},
			expected: map[string]any{"a": "app-prod"},
		},
		{
			name:     "multiple placeholders in one value",
			stage:    "qa",
			env:      map[string]string{"A": "1", "B": "2"},
			input:    map[string]any{"a": "${env:A}-${sls:stage}-${env:B}"},
			expected: map[string]any{"a": "1-qa-2"},
		},
		{
			name:     "cross component references are left alone",
			input:    map[string]any{"a": "${api.url}"},
			expected: map[string]any{"a": "${api.url}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{Stage: tt.stage, LookupEnv: envFrom(tt.env)}
			out, err := r.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := &Resolver{Stage: "prod", LookupEnv: envFrom(map[string]string{"FOO": "bar"})}
	input := map[string]any{
		"services": map[string]any{"api": map[string]any{"path": "${env:FOO}/${sls:stage}"}},
	}

	once, err := r.Resolve(input)
	require.NoError(t, err)
	twice, err := r.Resolve(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "bar/prod", once["services"].(map[string]any)["api"].(map[string]any)["path"])
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	input := map[string]any{"a": "${sls:stage}", "b": []any{"${sls:stage}"}}

	_, err := (&Resolver{Stage: "prod", LookupEnv: envFrom(nil)}).Resolve(input)
	require.NoError(t, err)

	assert.Equal(t, "${sls:stage}", input["a"])
	assert.Equal(t, []any{"${sls:stage}"}, input["b"])
}

func TestResolve_UnrecognizedSources(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected []string
	}{
		{
			name:     "single unknown source",
			input:    map[string]any{"a": "${unknown:foo}"},
			expected: []string{"unknown"},
		},
		{
			name: "distinct sources in first-seen order",
			input: map[string]any{
				"a": "${ssm:path} ${file:x.json}",
				"b": "${ssm:other}",
				"c": "${cf:stack.output}",
			},
			expected: []string{"ssm", "file", "cf"},
		},
		{
			name:     "sls with a path other than stage",
			input:    map[string]any{"a": "${sls:instanceId}"},
			expected: []string{"sls"},
		},
		{
			name:     "reported after resolvable placeholders are substituted",
			input:    map[string]any{"a": "${sls:stage}", "b": "${unknown:foo}"},
			expected: []string{"unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Resolver{Stage: "dev", LookupEnv: envFrom(nil)}).Resolve(tt.input)
			require.Error(t, err)
			assert.True(t, composeerrors.HasCode(err, composeerrors.ErrCodeUnrecognizedVariableSources))

			sources, ok := UnrecognizedSources(err)
			require.True(t, ok)
			assert.Equal(t, tt.expected, sources)
		})
	}
}

func TestResolve_MissingEnvironmentVariable(t *testing.T) {
	input := map[string]any{
		"a": "${sls:stage}",
		"b": "${env:MISSING}",
		"c": "${env:PRESENT}",
		"d": "${unknown:foo}",
	}

	_, err := (&Resolver{Stage: "dev", LookupEnv: envFrom(map[string]string{"PRESENT": "yes"})}).Resolve(input)
	require.Error(t, err)
	assert.True(t, composeerrors.HasCode(err, composeerrors.ErrCodeMissingEnvVariable))

	name, ok := MissingVariable(err)
	require.True(t, ok)
	assert.Equal(t, "MISSING", name)
	assert.Contains(t, err.Error(), `"MISSING"`)

	_, ok = UnrecognizedSources(err)
	assert.False(t, ok)
}

func TestResolve_EmptyEnvValueIsDefined(t *testing.T) {
	out, err := (&Resolver{LookupEnv: envFrom(map[string]string{"EMPTY": ""})}).Resolve(map[string]any{"a": "x${env:EMPTY}y"})
	require.NoError(t, err)
	assert.Equal(t, "xy", out["a"])
}

func TestResolve_PassLimit(t *testing.T) {
	r := &Resolver{
		LookupEnv: envFrom(map[string]string{"LOOP": "${env:LOOP}"}),
		MaxPasses: 5,
	}

	_, err := r.Resolve(map[string]any{"a": "${env:LOOP}"})
	require.Error(t, err)
	assert.True(t, composeerrors.HasCode(err, composeerrors.ErrCodeResolutionLimit))
}

func TestResolve_ProcessEnvironment(t *testing.T) {
	t.Setenv("COMPOSE_RESOLVER_TEST", "from-env")

	out, err := Resolve(map[string]any{"a": "${env:COMPOSE_RESOLVER_TEST}", "b": "${sls:stage}"}, "prod")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "from-env", "b": "prod"}, out)
}
