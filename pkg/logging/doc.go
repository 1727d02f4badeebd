// Package logging provides structured logging for serverless-compose built on
// Go's standard slog package.
//
// All log entries carry a subsystem identifier so output can be filtered by
// the part of the CLI that produced it:
//
//   - Bootstrap: run context and composition document loading
//   - Router: command line parsing and routing
//   - Variables: placeholder resolution
//   - Components: delegated component commands
//   - Lifecycle: exit paths, signals and panics
//   - Telemetry: local storage and transmission of usage records
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Loaded composition document from %s", path)
//	logging.Debug("Variables", "Resolution pass %d made %d substitutions", pass, n)
//	logging.Error("Components", err, "Component %s failed", name)
//
// Report renders the error that ended a run for the user. Errors from
// compose/pkg/errors are shown with their code.
//
// Log calls made before InitForCLI are dropped unless they are errors, which
// go to stderr. This keeps exit paths that fire before the run context exists
// from losing failure information.
package logging
