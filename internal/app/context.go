package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/serverless/compose/internal/router"
	"github.com/serverless/compose/pkg/logging"
)

// StateDirName is the directory below the project root holding local state.
const StateDirName = ".serverless"

// Context describes the current run: where it happens, for which stage, and
// how verbose it is.
type Context struct {
	Root      string
	Stage     string
	Verbose   bool
	StateRoot string
	Version   string
}

// NewContext builds a run context from parsed options. An empty root selects
// the current working directory.
func NewContext(opts router.Options, version, root string) (*Context, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	return &Context{
		Root:      root,
		Stage:     opts.Stage(),
		Verbose:   opts.Verbose(),
		StateRoot: filepath.Join(root, StateDirName),
		Version:   version,
	}, nil
}

// FallbackContext returns a best effort context for exit paths that run
// before the main flow built one. It never fails.
func FallbackContext(opts router.Options, version string) *Context {
	c, err := NewContext(opts, version, "")
	if err != nil {
		return &Context{Stage: opts.Stage(), Verbose: opts.Verbose(), Version: version}
	}
	return c
}

// Init configures logging for the run. Verbose runs log at debug level.
func (c *Context) Init(w io.Writer) {
	level := logging.LevelInfo
	if c.Verbose {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, w)
	logging.Debug("Bootstrap", "Running in %s for stage %s", c.Root, c.Stage)
}
