// Package errors defines the coded domain errors raised while locating,
// validating and resolving a composition document and while routing commands.
//
// Every error that can escape the main flow is a *StructuredError, so the
// top-level handler can report a message together with a stable code and the
// telemetry payload can record the code without the message.
package errors
