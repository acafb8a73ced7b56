// Package latency simulates the round trip of a remote API.
package latency

import (
	"context"
	"time"
)

// Delayer blocks for the simulated latency of one call.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// Sleep waits for d multiplied by Scale. A Scale of zero means 1.
type Sleep struct {
	Scale float64
}

func (s Sleep) Delay(ctx context.Context, d time.Duration) error {
	if s.Scale > 0 {
		d = time.Duration(float64(d) * s.Scale)
	}
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

// None returns immediately.
type None struct{}

func (None) Delay(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Profile holds the per-operation latencies of a mock API.
type Profile struct {
	GetAll  time.Duration
	GetByID time.Duration
	Create  time.Duration
	Update  time.Duration
	Delete  time.Duration
}

// DefaultProfile mirrors the delays of the dashboard's mock API.
func DefaultProfile() Profile {
	return Profile{
		GetAll:  300 * time.Millisecond,
		GetByID: 200 * time.Millisecond,
		Create:  400 * time.Millisecond,
		Update:  400 * time.Millisecond,
		Delete:  300 * time.Millisecond,
	}
}
