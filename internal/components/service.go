package components

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/serverless/compose/internal/config"
	"github.com/serverless/compose/internal/dependency"
	composeerrors "github.com/serverless/compose/pkg/errors"
	"github.com/serverless/compose/pkg/logging"
)

// DefaultMaxConcurrency bounds how many components run at once.
const DefaultMaxConcurrency = 10

// order describes how a global command walks the dependency levels.
type order int

const (
	orderForward order = iota
	orderReverse
	orderNone
)

// globalCommands are the commands that can run against all components.
var globalCommands = map[string]order{
	"deploy":  orderForward,
	"package": orderForward,
	"remove":  orderReverse,
	"info":    orderNone,
	"logs":    orderNone,
	"outputs": orderNone,
}

// SignalClaimer lets a running command take first refusal on a signal.
type SignalClaimer interface {
	Claim(sig os.Signal) (release func())
}

// Settings configures a Service.
type Settings struct {
	Stage          string
	Verbose        bool
	MaxConcurrency int
	// Recorder receives the outcome of every component command.
	Recorder *Recorder
	// Claimer is notified while interactive commands run.
	Claimer SignalClaimer
	Stdout  io.Writer
	Stderr  io.Writer
}

// Service runs commands on the components of a composition.
type Service struct {
	components map[string]config.Component
	graph      *dependency.Graph
	levels     [][]dependency.NodeID
	runner     Runner
	settings   Settings
}

// New builds a Service. The component dependencies are checked up front so
// that unknown dependencies and cycles fail before anything runs.
func New(components []config.Component, runner Runner, settings Settings) (*Service, error) {
	if settings.MaxConcurrency <= 0 {
		settings.MaxConcurrency = DefaultMaxConcurrency
	}
	if settings.Recorder == nil {
		settings.Recorder = NewRecorder()
	}
	if settings.Stdout == nil {
		settings.Stdout = os.Stdout
	}
	if settings.Stderr == nil {
		settings.Stderr = os.Stderr
	}

	s := &Service{
		components: make(map[string]config.Component, len(components)),
		graph:      dependency.New(),
		runner:     runner,
		settings:   settings,
	}
	for _, c := range components {
		s.components[c.Name] = c
		deps := make([]dependency.NodeID, len(c.DependsOn))
		for i, d := range c.DependsOn {
			deps[i] = dependency.NodeID(d)
		}
		s.graph.AddNode(dependency.Node{ID: dependency.NodeID(c.Name), DependsOn: deps})
	}

	levels, err := s.graph.Levels()
	if err != nil {
		return nil, err
	}
	s.levels = levels
	return s, nil
}

// Recorder returns the recorder receiving outcomes.
func (s *Service) Recorder() *Recorder {
	return s.settings.Recorder
}

// RunComponent runs command on a single component, attached to the terminal.
func (s *Service) RunComponent(ctx context.Context, name, command string, opts map[string]any) error {
	c, ok := s.components[name]
	if !ok {
		return composeerrors.NewWithContext(composeerrors.ErrCodeComponentNotFound,
			fmt.Sprintf("component %q is not defined in serverless-compose.yml (available: %s)", name, strings.Join(s.names(), ", ")),
			map[string]any{"component": name})
	}

	if s.settings.Claimer != nil {
		release := s.settings.Claimer.Claim(syscall.SIGINT)
		defer release()
	}

	s.runOne(ctx, c, command, opts, true, nil)
	return nil
}

// RunGlobal runs command on every component. Ordered commands run level by
// level; once a level has a failure the following levels are skipped.
func (s *Service) RunGlobal(ctx context.Context, command string, opts map[string]any) error {
	ord, ok := globalCommands[command]
	if !ok {
		return composeerrors.NewWithContext(composeerrors.ErrCodeCommandNotFound,
			fmt.Sprintf("command %q is not a global command, use \"serverless-compose <component> %s\" to run it on a single component", command, command),
			map[string]any{"command": command})
	}

	var levels [][]dependency.NodeID
	switch ord {
	case orderForward:
		levels = s.levels
	case orderReverse:
		for i := len(s.levels) - 1; i >= 0; i-- {
			levels = append(levels, s.levels[i])
		}
	case orderNone:
		var all []dependency.NodeID
		for _, level := range s.levels {
			all = append(all, level...)
		}
		if len(all) > 0 {
			levels = [][]dependency.NodeID{all}
		}
	}

	before := len(s.settings.Recorder.Outcomes())
	p := newProgress(s.settings.Stderr, s.settings.Verbose)
	skipped, err := s.runLevels(ctx, levels, command, opts, p)
	p.stop()
	if err != nil {
		return err
	}

	WriteSummary(s.settings.Stdout, s.settings.Recorder.Outcomes()[before:], skipped)
	return nil
}

func (s *Service) runLevels(ctx context.Context, levels [][]dependency.NodeID, command string, opts map[string]any, p *progress) ([]string, error) {
	var skipped []string
	for i, level := range levels {
		if i > 0 && s.settings.Recorder.HasFailure() {
			for _, rest := range levels[i:] {
				for _, id := range rest {
					skipped = append(skipped, string(id))
				}
			}
			logging.Warn("Components", "Skipping %d components after a failure", len(skipped))
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.settings.MaxConcurrency)
		for _, id := range level {
			c := s.components[string(id)]
			g.Go(func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = composeerrors.Newf(composeerrors.ErrCodeInternal, "component %s: unexpected panic: %v", c.Name, r)
					}
				}()
				s.runOne(gctx, c, command, opts, false, p)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

func (s *Service) runOne(ctx context.Context, c config.Component, command string, opts map[string]any, interactive bool, p *progress) {
	if p != nil {
		p.start(c.Name)
		defer p.done(c.Name)
	}

	logging.Debug("Components", "Running %s on %s in %s", command, c.Name, c.Path)
	start := time.Now()
	err := s.runner.Run(ctx, Task{
		Component:   c,
		Command:     command,
		Options:     opts,
		Stage:       s.settings.Stage,
		Verbose:     s.settings.Verbose,
		Interactive: interactive,
	})

	outcome := Outcome{Component: c.Name, Command: command, Status: StatusSuccess, Duration: time.Since(start)}
	if err != nil {
		outcome.Status = StatusFailure
		outcome.Err = err
		logging.Error("Components", err, "%s failed on %s", command, c.Name)
	} else {
		logging.Debug("Components", "%s succeeded on %s in %s", command, c.Name, outcome.Duration)
	}
	s.settings.Recorder.Record(outcome)
}

func (s *Service) names() []string {
	var names []string
	for _, level := range s.levels {
		for _, id := range level {
			names = append(names, string(id))
		}
	}
	return names
}
