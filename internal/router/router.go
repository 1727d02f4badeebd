package router

import (
	"errors"
	"strings"
)

// DefaultStage is used when no --stage option is given.
const DefaultStage = "dev"

// ErrHelpRequested is returned by Route when usage should be printed instead
// of invoking a command.
var ErrHelpRequested = errors.New("help requested")

// Invocation is the command a run targets. ComponentName is empty for global
// commands.
type Invocation struct {
	ComponentName string
	Command       string
	Options       Options
}

// HasComponent reports whether the invocation targets a single component.
func (i Invocation) HasComponent() bool {
	return i.ComponentName != ""
}

// Route derives the invocation from parsed options. The passed options are
// not modified; the invocation carries a copy without the positional tokens
// and the service selector.
//
// Whether the component or command exists is not checked here.
func Route(opts Options) (Invocation, error) {
	positional := opts.Positional()
	if opts.Bool("help") || opts.Bool("h") || len(positional) == 0 || positional[0] == "help" {
		return Invocation{}, ErrHelpRequested
	}

	command := strings.Join(positional, ":")
	rest := opts.Clone()
	delete(rest, PositionalKey)

	if service, ok := rest.String("service"); ok && service != "" {
		delete(rest, "service")
		return Invocation{ComponentName: service, Command: command, Options: rest}, nil
	}

	if component, cmd, ok := strings.Cut(command, ":"); ok {
		return Invocation{ComponentName: component, Command: cmd, Options: rest}, nil
	}

	return Invocation{Command: command, Options: rest}, nil
}
