// Package components runs framework commands on the components of a
// composition and records a success or failure outcome for each of them.
//
// A command aimed at one component runs attached to the terminal. Global
// commands run on every component:
//
//   - deploy and package follow the dependency order
//   - remove runs in reverse dependency order
//   - info, logs and outputs run on all components at once
//
// Components of the same dependency level run concurrently, bounded by
// Settings.MaxConcurrency. After a level with a failed component the
// remaining levels are skipped. A failed component is recorded as an
// outcome, not returned as an error; errors are reserved for problems with
// the composition itself.
package components
