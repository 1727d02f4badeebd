package components

import (
	"sync"
	"time"
)

// Status classifies the result of one component command.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Outcome is the recorded result of running a command on one component.
// It is never modified after being recorded.
type Outcome struct {
	Component string
	Command   string
	Status    Status
	Err       error
	Duration  time.Duration
}

// Recorder collects outcomes from concurrently running components. A nil
// Recorder records nothing and reports no failure.
type Recorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record stores an outcome.
func (r *Recorder) Record(o Outcome) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Outcomes returns the recorded outcomes in recording order.
func (r *Recorder) Outcomes() []Outcome {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

// HasFailure reports whether any recorded outcome failed.
func (r *Recorder) HasFailure() bool {
	_, failure := r.Counts()
	return failure > 0
}

// Counts returns the number of successful and failed outcomes.
func (r *Recorder) Counts() (success, failure int) {
	return countOutcomes(r.Outcomes())
}
