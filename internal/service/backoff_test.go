package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Delay(t *testing.T) {
	b := Backoff{
		Base:   100 * time.Millisecond,
		Max:    time.Second,
		Jitter: func(d time.Duration) time.Duration { return d },
	}

	assert.Equal(t, 100*time.Millisecond, b.Delay(1, 0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(2, 0))
	assert.Equal(t, 400*time.Millisecond, b.Delay(3, 0))
	assert.Equal(t, 800*time.Millisecond, b.Delay(4, 0))
	assert.Equal(t, time.Second, b.Delay(5, 0))
	assert.Equal(t, time.Second, b.Delay(200, 0))

	// provider hint replaces exponential delay
	assert.Equal(t, 5*time.Second, b.Delay(1, 5*time.Second))
}

func TestBackoff_EqualJitterBounds(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Second}

	for range 100 {
		d := b.Delay(2, 0)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 200*time.Millisecond)
	}
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	err := sleepContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}
