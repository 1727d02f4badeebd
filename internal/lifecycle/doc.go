// Package lifecycle supervises how a serverless-compose process ends.
//
// A Supervisor is created right after the RunState and installed before
// anything else runs. From then on the run can end in four ways:
//
//   - the main flow returns without error (Complete(nil))
//   - the main flow returns an error (Complete(err))
//   - the main goroutine panics (deferred Recover)
//   - SIGINT, SIGTERM or SIGHUP is received (HandleSignal)
//
// Each path runs the same finalization exactly once: the error report is
// printed, a telemetry payload is built from whatever the RunState holds,
// stored locally and sent in a single bounded attempt. Concurrent paths block
// until the first one has terminated the process.
//
// The exit status is 0 only when no error escaped and no component command
// failed. Signal deaths re-raise the signal with the default handler so the
// parent sees a conventional signal exit; SIGHUP is raised as an interrupt on
// windows. A signal is ignored while it is claimed, for instance by an
// interactive component command that handles Ctrl+C itself.
package lifecycle
