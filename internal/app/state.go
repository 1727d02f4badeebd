package app

import (
	"sync"

	"github.com/serverless/compose/internal/components"
	"github.com/serverless/compose/internal/router"
)

// Phase is the lifecycle phase of the process.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInitializing
	PhaseRunning
	PhaseFinalizing
	PhaseTerminated
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseInitializing:
		return "initializing"
	case PhaseRunning:
		return "running"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// RunState is the process-wide record of the current run. It is created
// before any exit listener is installed and filled in as the run proceeds.
// Exit listeners may read it at any time, so every field may still be unset.
type RunState struct {
	mu sync.RWMutex

	phase         Phase
	options       router.Options
	command       string
	componentName string
	context       *Context
	configuration map[string]any
	recorder      *components.Recorder
}

// NewRunState returns an empty run state with its own outcome recorder.
func NewRunState() *RunState {
	return &RunState{recorder: components.NewRecorder()}
}

// Snapshot is a point-in-time copy of a RunState.
type Snapshot struct {
	Phase         Phase
	Options       router.Options
	Command       string
	ComponentName string
	Context       *Context
	Configuration map[string]any
	Outcomes      []components.Outcome
}

// SetPhase records the lifecycle phase.
func (s *RunState) SetPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

// SetOptions records the parsed command line options.
func (s *RunState) SetOptions(opts router.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = opts
}

// SetInvocation records the routed command.
func (s *RunState) SetInvocation(inv router.Invocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.command = inv.Command
	s.componentName = inv.ComponentName
}

// SetContext records the run context.
func (s *RunState) SetContext(c *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = c
}

// SetConfiguration records the composition document reported in telemetry.
func (s *RunState) SetConfiguration(doc map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configuration = doc
}

// Recorder returns the recorder receiving component outcomes.
func (s *RunState) Recorder() *components.Recorder {
	return s.recorder
}

// Snapshot returns the current state.
func (s *RunState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Phase:         s.phase,
		Options:       s.options.Clone(),
		Command:       s.command,
		ComponentName: s.componentName,
		Context:       s.context,
		Configuration: s.configuration,
		Outcomes:      s.recorder.Outcomes(),
	}
}
