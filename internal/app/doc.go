// Package app wires one run of serverless-compose together.
//
// The package owns three pieces:
//
//   - Config: process settings read from the environment (framework binary,
//     concurrency, telemetry endpoint and cache directory).
//   - Context and RunState: the run context (root, stage, verbosity, state
//     directory) and the process-wide record of what the run has learned so
//     far. RunState is created before exit listeners are installed and is only
//     ever mutated in place; readers take a Snapshot.
//   - Application: the main flow. It parses and routes the command line,
//     rejects unsupported options, builds the run context, locates, validates
//     and resolves serverless-compose.yml and finally delegates the command to
//     the components service, either for one component or for all of them.
//
// Usage:
//
//	state := app.NewRunState()
//	application := app.NewApplication(app.LoadConfigFromEnv(version), state,
//	    app.WithHelp(printUsage))
//	err := application.Run(ctx, os.Args[1:])
//
// Exit handling and telemetry live in the lifecycle package, which reads the
// same RunState.
package app
