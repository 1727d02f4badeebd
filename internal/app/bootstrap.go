package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/serverless/compose/internal/components"
	"github.com/serverless/compose/internal/config"
	"github.com/serverless/compose/internal/router"
	"github.com/serverless/compose/internal/variables"
	"github.com/serverless/compose/pkg/logging"
)

// HelpFunc renders usage information.
type HelpFunc func() error

// Application runs one invocation of serverless-compose: it routes the
// command line, loads and resolves the composition and hands the command
// to the components service.
//
// Every step records what it learned in the shared RunState so that exit
// listeners can report on the run whenever it ends.
type Application struct {
	config  *Config
	state   *RunState
	help    HelpFunc
	runner  components.Runner
	claimer components.SignalClaimer
	root    string
	stdout  io.Writer
	stderr  io.Writer
}

// Option customizes an Application.
type Option func(*Application)

// WithHelp sets the function rendering usage information.
func WithHelp(fn HelpFunc) Option {
	return func(a *Application) { a.help = fn }
}

// WithRunner replaces the framework runner used for components.
func WithRunner(r components.Runner) Option {
	return func(a *Application) { a.runner = r }
}

// WithSignalClaimer sets where interactive commands claim signals.
func WithSignalClaimer(c components.SignalClaimer) Option {
	return func(a *Application) { a.claimer = c }
}

// WithWorkingDir sets the project root instead of the current directory.
func WithWorkingDir(dir string) Option {
	return func(a *Application) { a.root = dir }
}

// WithOutput sets the writers for command output and logs.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *Application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// NewApplication creates an application recording into state.
func NewApplication(cfg *Config, state *RunState, opts ...Option) *Application {
	a := &Application{
		config: cfg,
		state:  state,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.runner == nil {
		r := components.NewFrameworkRunner(cfg.FrameworkBinary)
		r.Stdout = a.stdout
		r.Stderr = a.stderr
		a.runner = r
	}
	if a.help == nil {
		a.help = func() error { return nil }
	}
	return a
}

// State returns the run state the application records into.
func (a *Application) State() *RunState {
	return a.state
}

// Run executes the invocation described by args. Component failures are
// recorded as outcomes and do not produce an error.
func (a *Application) Run(ctx context.Context, args []string) error {
	a.state.SetPhase(PhaseInitializing)

	opts := router.ParseArgs(args)
	a.state.SetOptions(opts)

	if err := router.CheckReserved(opts); err != nil {
		return err
	}

	inv, err := router.Route(opts)
	if errors.Is(err, router.ErrHelpRequested) {
		return a.help()
	}
	if err != nil {
		return err
	}
	a.state.SetInvocation(inv)

	runCtx, err := NewContext(opts, a.config.Version, a.root)
	if err != nil {
		return err
	}
	runCtx.Init(a.stderr)
	a.state.SetContext(runCtx)

	svc, err := a.load(runCtx)
	if err != nil {
		return err
	}

	a.state.SetPhase(PhaseRunning)
	if inv.HasComponent() {
		logging.Debug("Bootstrap", "Running %s on component %s", inv.Command, inv.ComponentName)
		return svc.RunComponent(ctx, inv.ComponentName, inv.Command, inv.Options)
	}
	logging.Debug("Bootstrap", "Running %s on all components", inv.Command)
	return svc.RunGlobal(ctx, inv.Command, inv.Options)
}

// load locates, validates and resolves the composition and builds the
// components service for it.
func (a *Application) load(runCtx *Context) (*components.Service, error) {
	path, err := config.Locate(runCtx.Root)
	if err != nil {
		return nil, err
	}
	logging.Debug("Bootstrap", "Loading configuration from %s", path)

	doc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(doc); err != nil {
		return nil, err
	}
	a.state.SetConfiguration(doc)

	resolved, err := variables.Resolve(doc, runCtx.Stage)
	if err != nil {
		return nil, err
	}

	comps, err := config.Components(resolved, runCtx.Root)
	if err != nil {
		return nil, err
	}
	logging.Debug("Bootstrap", "Loaded %d components", len(comps))

	svc, err := components.New(comps, a.runner, components.Settings{
		Stage:          runCtx.Stage,
		Verbose:        runCtx.Verbose,
		MaxConcurrency: a.config.MaxConcurrency,
		Recorder:       a.state.Recorder(),
		Claimer:        a.claimer,
		Stdout:         a.stdout,
		Stderr:         a.stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare components: %w", err)
	}
	return svc, nil
}
