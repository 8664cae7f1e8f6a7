package main

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delayer simulates network latency. Delay blocks until the delay has passed
// or ctx is done, in which case it returns ctx.Err().
type Delayer interface {
	Delay(ctx context.Context) error
}

// noDelay is the Delayer used in production and in tests.
type noDelay struct{}

func (noDelay) Delay(ctx context.Context) error {
	return ctx.Err()
}

// uniformDelay sleeps for a whole number of milliseconds picked uniformly from
// [min, max], both ends included.
type uniformDelay struct {
	min, max time.Duration
	// intN returns a value in [0, n). Swappable for tests.
	intN func(n int) int
}

func newUniformDelay(lo, hi time.Duration) *uniformDelay {
	if hi < lo {
		lo, hi = hi, lo
	}
	return &uniformDelay{min: lo, max: hi, intN: rand.IntN}
}

func (d *uniformDelay) next() time.Duration {
	spanMs := int((d.max - d.min) / time.Millisecond)
	return d.min + time.Duration(d.intN(spanMs+1))*time.Millisecond
}

func (d *uniformDelay) Delay(ctx context.Context) error {
	timer := time.NewTimer(d.next())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
