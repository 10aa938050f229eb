package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff computes delays between attempts: exponential from Base, capped at
// Max, with equal jitter. A provider hint replaces the computed delay.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Jitter func(time.Duration) time.Duration
}

func (b Backoff) Delay(attempt int, hint time.Duration) time.Duration {
	if hint > 0 {
		return hint
	}

	delay := b.Max
	if shift := attempt - 1; shift >= 0 && shift < 32 {
		if d := b.Base << shift; d > 0 && d < b.Max {
			delay = d
		}
	}

	if b.Jitter != nil {
		return b.Jitter(delay)
	}
	return equalJitter(delay)
}

// equalJitter keeps half of d and randomizes the other half.
func equalJitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + rand.N(half+1)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
