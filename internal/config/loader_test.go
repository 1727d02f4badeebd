package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	composeerrors "github.com/serverless/compose/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected string
		wantCode composeerrors.ErrorCode
	}{
		{
			name:     "yml",
			files:    []string{"serverless-compose.yml"},
			expected: "serverless-compose.yml",
		},
		{
			name:     "yaml",
			files:    []string{"serverless-compose.yaml"},
			expected: "serverless-compose.yaml",
		},
		{
			name:     "yml wins over yaml",
			files:    []string{"serverless-compose.yaml", "serverless-compose.yml"},
			expected: "serverless-compose.yml",
		},
		{
			name:     "missing",
			files:    []string{"serverless.yml"},
			wantCode: composeerrors.ErrCodeConfigurationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, dir, f, "services: {}\n")
			}

			path, err := Locate(dir)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, composeerrors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.expected), path)
		})
	}
}

func TestLocate_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "serverless-compose.yml"), 0755))
	writeFile(t, dir, "serverless-compose.yaml", "services: {}\n")

	path, err := Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "serverless-compose.yaml"), path)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "serverless-compose.yml", `
services:
  api:
    path: api
    params:
      stage: ${sls:stage}
      retries: 3
`)

	doc, err := Load(path)
	require.NoError(t, err)

	services := doc["services"].(map[string]any)
	api := services["api"].(map[string]any)
	assert.Equal(t, "api", api["path"])
	assert.Equal(t, "${sls:stage}", api["params"].(map[string]any)["stage"])
	assert.Equal(t, 3, api["params"].(map[string]any)["retries"])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "services: [\n"},
		{name: "empty document", content: ""},
		{name: "sequence root", content: "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "serverless-compose.yml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, composeerrors.HasCode(err, composeerrors.ErrCodeInvalidConfigurationFormat))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "serverless-compose.yml"))
	require.Error(t, err)
	assert.True(t, composeerrors.HasCode(err, composeerrors.ErrCodeInvalidConfigurationFormat))
}
