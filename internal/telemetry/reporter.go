package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultSendTimeout bounds the transmission attempt made at exit.
const DefaultSendTimeout = 3 * time.Second

// ReporterConfig configures a Reporter.
type ReporterConfig struct {
	Dir         string
	URL         string
	Disabled    bool
	SendTimeout time.Duration
}

// Reporter stores a payload and makes one attempt to send everything stored.
type Reporter struct {
	store    *Store
	sender   *Sender
	disabled bool
	timeout  time.Duration
}

// NewReporter creates a reporter.
func NewReporter(cfg ReporterConfig) *Reporter {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	store := NewStore(cfg.Dir)
	return &Reporter{
		store:    store,
		sender:   NewSender(store, cfg.URL),
		disabled: cfg.Disabled,
		timeout:  cfg.SendTimeout,
	}
}

// Report stores p and then tries once to send the stored payloads. A failed
// store does not prevent the send attempt. Both failures are returned joined.
// A disabled reporter still stores p but never sends.
func (r *Reporter) Report(ctx context.Context, p Payload) error {
	var errs []error
	if err := r.store.Save(p); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if r.disabled {
		return errors.Join(errs...)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.sender.Send(ctx); err != nil {
		errs = append(errs, fmt.Errorf("send: %w", err))
	}
	return errors.Join(errs...)
}
