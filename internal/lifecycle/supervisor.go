package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/serverless/compose/internal/app"
	"github.com/serverless/compose/internal/telemetry"
	composeerrors "github.com/serverless/compose/pkg/errors"
	"github.com/serverless/compose/pkg/logging"
)

// DefaultRaiseGrace is how long the process waits to be killed by a
// re-raised signal before exiting on its own.
const DefaultRaiseGrace = time.Second

// Reporter receives the telemetry payload of a finished run.
type Reporter interface {
	Report(ctx context.Context, p telemetry.Payload) error
}

// Supervisor owns every way the process can end: normal completion, an
// error returned by the main flow, a panic and a termination signal.
// Whichever comes first finalizes the run; the others block until the
// process is gone.
type Supervisor struct {
	state    *app.RunState
	version  string
	reporter Reporter
	claims   ClaimsSignal

	exit  func(code int)
	raise func(sig os.Signal) error
	reset func(sig ...os.Signal)
	goos  string
	grace time.Duration

	once    sync.Once
	signals chan os.Signal
	stop    chan struct{}
}

// Option customizes a Supervisor.
type Option func(*Supervisor)

// WithReporter sets where telemetry goes.
func WithReporter(r Reporter) Option {
	return func(s *Supervisor) { s.reporter = r }
}

// WithClaims sets the predicate deciding whether a signal is handled
// elsewhere.
func WithClaims(fn ClaimsSignal) Option {
	return func(s *Supervisor) { s.claims = fn }
}

// WithExit replaces os.Exit.
func WithExit(fn func(code int)) Option {
	return func(s *Supervisor) { s.exit = fn }
}

// WithRaise replaces how a signal is sent to the current process.
func WithRaise(fn func(sig os.Signal) error) Option {
	return func(s *Supervisor) { s.raise = fn }
}

// WithSignalReset replaces signal.Reset.
func WithSignalReset(fn func(sig ...os.Signal)) Option {
	return func(s *Supervisor) { s.reset = fn }
}

// WithGOOS overrides the operating system used to normalize signals.
func WithGOOS(goos string) Option {
	return func(s *Supervisor) { s.goos = goos }
}

// WithRaiseGrace sets how long to wait for a re-raised signal to take
// effect.
func WithRaiseGrace(d time.Duration) Option {
	return func(s *Supervisor) { s.grace = d }
}

// New creates a supervisor for the run recorded in state.
func New(state *app.RunState, version string, opts ...Option) *Supervisor {
	s := &Supervisor{
		state:   state,
		version: version,
		claims:  func(os.Signal) bool { return false },
		exit:    os.Exit,
		raise:   raiseSignal,
		reset:   signal.Reset,
		goos:    runtime.GOOS,
		grace:   DefaultRaiseGrace,
		signals: make(chan os.Signal, 1),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Install starts listening for termination signals. It must be called
// before the main flow starts.
func (s *Supervisor) Install() {
	signal.Notify(s.signals, TerminationSignals...)
	go s.watch()
	logging.Debug("Lifecycle", "Listening for %v", TerminationSignals)
}

// Close stops listening for signals.
func (s *Supervisor) Close() {
	signal.Stop(s.signals)
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

func (s *Supervisor) watch() {
	for {
		select {
		case sig := <-s.signals:
			s.HandleSignal(sig)
		case <-s.stop:
			return
		}
	}
}

// Complete ends the run after the main flow returned. err is nil on normal
// completion.
func (s *Supervisor) Complete(err error) {
	s.terminate(func() {
		s.exit(s.finalize(err, nil))
	})
}

// Recover ends the run when the calling goroutine panics. It must be
// deferred directly.
func (s *Supervisor) Recover() {
	r := recover()
	if r == nil {
		return
	}
	logging.Debug("Lifecycle", "Panic: %v\n%s", r, debug.Stack())
	err := composeerrors.Newf(composeerrors.ErrCodeInternal, "unexpected error: %v", r)
	s.terminate(func() {
		s.finalize(err, nil)
		s.exit(ExitCodeError)
	})
}

// HandleSignal ends the run because sig was received, unless sig is
// claimed elsewhere. After finalizing, the default handler is restored and
// the signal is raised again so that the process dies from it.
func (s *Supervisor) HandleSignal(sig os.Signal) {
	if s.claims(sig) {
		logging.Debug("Lifecycle", "Signal %v is handled by a running command", sig)
		return
	}

	s.terminate(func() {
		s.finalize(nil, sig)

		raised := normalizeSignal(sig, s.goos)
		s.reset(raised)
		if err := s.raise(raised); err != nil {
			logging.Debug("Lifecycle", "Failed to raise %v: %v", raised, err)
			s.exit(ExitCodeError)
			return
		}
		time.Sleep(s.grace)
		s.exit(ExitCodeError)
	})
}

// terminate runs fn at most once. Concurrent callers wait for the first one.
func (s *Supervisor) terminate(fn func()) {
	s.once.Do(fn)
}

// finalize reports the run and returns its exit code. Telemetry problems
// are logged and never change the result.
func (s *Supervisor) finalize(err error, sig os.Signal) int {
	s.state.SetPhase(app.PhaseFinalizing)
	defer s.state.SetPhase(app.PhaseTerminated)

	if err != nil {
		logging.Report(err)
	}

	snap := s.state.Snapshot()
	s.report(snap, err, sig)
	return ExitCode(err, snap.Outcomes)
}

func (s *Supervisor) report(snap app.Snapshot, err error, sig os.Signal) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debug("Lifecycle", "Telemetry panicked: %v", r)
		}
	}()

	if s.reporter == nil {
		return
	}

	runCtx := snap.Context
	if runCtx == nil {
		runCtx = app.FallbackContext(snap.Options, s.version)
	}

	payload := telemetry.Generate(telemetry.Input{
		Configuration: snap.Configuration,
		Options:       snap.Options,
		Command:       snap.Command,
		ComponentName: snap.ComponentName,
		Stage:         runCtx.Stage,
		Verbose:       runCtx.Verbose,
		Version:       s.version,
		Outcomes:      snap.Outcomes,
		Error:         err,
		Signal:        sig,
	})

	if rerr := s.reporter.Report(context.Background(), payload); rerr != nil {
		logging.Debug("Lifecycle", "%v", fmt.Errorf("telemetry: %w", rerr))
	}
}
