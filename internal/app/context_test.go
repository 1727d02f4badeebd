package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serverless/compose/internal/router"
	"github.com/serverless/compose/pkg/logging"
)

func TestNewContext(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stage   string
		verbose bool
	}{
		{name: "defaults", args: []string{"deploy"}, stage: "dev"},
		{name: "explicit stage", args: []string{"deploy", "--stage", "prod"}, stage: "prod"},
		{name: "verbose", args: []string{"deploy", "--verbose"}, stage: "dev", verbose: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			c, err := NewContext(router.ParseArgs(tt.args), "1.0.0", root)
			require.NoError(t, err)

			assert.Equal(t, root, c.Root)
			assert.Equal(t, tt.stage, c.Stage)
			assert.Equal(t, tt.verbose, c.Verbose)
			assert.Equal(t, filepath.Join(root, ".serverless"), c.StateRoot)
			assert.Equal(t, "1.0.0", c.Version)
		})
	}
}

func TestNewContext_WorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	c, err := NewContext(nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, wd, c.Root)
	assert.Equal(t, "dev", c.Stage)
}

func TestFallbackContext(t *testing.T) {
	c := FallbackContext(router.Options{"stage": "qa"}, "2.0.0")
	require.NotNil(t, c)
	assert.Equal(t, "qa", c.Stage)
	assert.Equal(t, "2.0.0", c.Version)
}

func TestContext_Init(t *testing.T) {
	var buf bytes.Buffer
	c := &Context{Root: "/project", Stage: "dev", Verbose: true}
	c.Init(&buf)

	assert.True(t, logging.Initialized())
	logging.Debug("Test", "visible at debug level")
	assert.Contains(t, buf.String(), "visible at debug level")
}
