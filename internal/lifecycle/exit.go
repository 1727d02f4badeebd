package lifecycle

import (
	"github.com/serverless/compose/internal/components"
)

// Exit codes of the process.
const (
	// ExitCodeSuccess means the run completed and every component command succeeded.
	ExitCodeSuccess = 0
	// ExitCodeError covers every other way a run ends.
	ExitCodeError = 1
)

// ExitCode derives the process exit status from the error that ended the
// run and the recorded component outcomes.
func ExitCode(err error, outcomes []components.Outcome) int {
	if err != nil {
		return ExitCodeError
	}
	for _, o := range outcomes {
		if o.Status == components.StatusFailure {
			return ExitCodeError
		}
	}
	return ExitCodeSuccess
}
