// Package telemetry produces, stores and transmits usage records.
//
// A record is generated once per run from whatever the run state holds when
// the process ends. It is always written to the local store first; a single
// transmission attempt then posts every pending record to the configured
// endpoint. Records only carry option names, counts and error codes, never
// values from the command line or the composition.
package telemetry
