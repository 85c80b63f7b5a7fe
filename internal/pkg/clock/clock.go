// Package clock provides time utilities for the engine.
//
// Pacing pauses between combat actions go through Sleep so that tests and
// headless runs can swap in an instant clock.
package clock

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/KirkDiggler/rpg-journey/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
	// Sleep pauses for d or until ctx is done, whichever comes first.
	// It returns ctx.Err() when the context ended the pause.
	Sleep(ctx context.Context, d time.Duration) error
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// Sleep blocks on a timer, not a busy loop
func (c *Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Instant is a Clock whose pauses return immediately. Now still reports wall time.
type Instant struct{}

// Now returns the current time
func (c *Instant) Now() time.Time {
	return time.Now()
}

// Sleep returns immediately unless ctx is already done
func (c *Instant) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// NewInstant returns a clock that never waits
func NewInstant() Clock {
	return &Instant{}
}
