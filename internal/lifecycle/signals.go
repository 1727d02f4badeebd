package lifecycle

import (
	"os"
	"syscall"
)

// TerminationSignals are the signals the supervisor listens for.
var TerminationSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// normalizeSignal maps SIGHUP to an interrupt on windows, where a hang-up
// cannot be raised against the process.
func normalizeSignal(sig os.Signal, goos string) os.Signal {
	if goos == "windows" && sig == syscall.SIGHUP {
		return os.Interrupt
	}
	return sig
}

// raiseSignal sends sig to the current process.
func raiseSignal(sig os.Signal) error {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return err
	}
	return p.Signal(sig)
}
