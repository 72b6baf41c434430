package common

import (
	"context"
	"time"
)

// Pacer inserts a fixed courtesy delay between successive batches of work
// against a rate-limited external source. The delay is a tunable, not a
// correctness mechanism; a zero delay disables pacing entirely.
type Pacer struct {
	delay   time.Duration
	started bool
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks for the configured delay, except before the first batch.
// Returns early with the context error if the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return nil
	}
	if p.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
