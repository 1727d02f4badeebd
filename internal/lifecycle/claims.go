package lifecycle

import (
	"os"
	"sync"
)

// ClaimsSignal reports whether something other than the supervisor wants to
// handle sig. When it does, the supervisor leaves the signal alone.
type ClaimsSignal func(sig os.Signal) bool

// SignalClaims tracks which signals are currently claimed, typically by
// interactive commands that handle an interrupt themselves.
type SignalClaims struct {
	mu     sync.Mutex
	claims map[os.Signal]int
}

// NewSignalClaims returns an empty registry.
func NewSignalClaims() *SignalClaims {
	return &SignalClaims{claims: make(map[os.Signal]int)}
}

// Claim registers interest in sig until the returned release func is called.
// Calling release more than once has no further effect.
func (c *SignalClaims) Claim(sig os.Signal) (release func()) {
	c.mu.Lock()
	c.claims[sig]++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.claims[sig]--
			if c.claims[sig] <= 0 {
				delete(c.claims, sig)
			}
		})
	}
}

// Claimed reports whether sig is currently claimed. It can be used as a
// ClaimsSignal.
func (c *SignalClaims) Claimed(sig os.Signal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims[sig] > 0
}
