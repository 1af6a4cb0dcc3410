package stealth

import (
	"context"
	"math/rand/v2"
	"time"
)

// DelayProfile names a pacing preset.
type DelayProfile string

const (
	ProfileCautious   DelayProfile = "cautious"
	ProfileNormal     DelayProfile = "normal"
	ProfileAggressive DelayProfile = "aggressive"
	ProfileNone       DelayProfile = "none"
)

// Jitter pauses for a random duration in [Min, Max).
type Jitter struct {
	Min time.Duration
	Max time.Duration
}

// JitterFor returns the pacing for a profile. Unknown profiles get "normal".
func JitterFor(profile DelayProfile) Jitter {
	switch profile {
	case ProfileCautious:
		return Jitter{Min: 1500 * time.Millisecond, Max: 4 * time.Second}
	case ProfileAggressive:
		return Jitter{Min: 100 * time.Millisecond, Max: 400 * time.Millisecond}
	case ProfileNone:
		return Jitter{}
	default:
		return Jitter{Min: 400 * time.Millisecond, Max: 1200 * time.Millisecond}
	}
}

// Duration picks the next pause.
func (j Jitter) Duration() time.Duration {
	if j.Max <= j.Min {
		return j.Min
	}
	return j.Min + rand.N(j.Max-j.Min)
}

// Wait sleeps for Duration or until ctx is done.
func (j Jitter) Wait(ctx context.Context) error {
	d := j.Duration()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
