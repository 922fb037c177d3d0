package embedder

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds the startup probe. Delays grow by Factor from Initial
// up to Max between Attempts tries.
type RetryConfig struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
	Factor   float64
}

// DefaultRetryConfig returns the probe defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: ProbeAttempts,
		Initial:  ProbeInitialDelay,
		Max:      ProbeMaxDelay,
		Factor:   2,
	}
}

// delay is the pause after the given failed attempt (1-based)
func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.Initial
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * c.Factor)
		if d >= c.Max {
			return c.Max
		}
	}
	if d > c.Max {
		return c.Max
	}
	return d
}

// retry calls fn until it succeeds, Attempts run out, or ctx is done
func retry[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(cfg.Attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var out T
		if out, err = fn(ctx); err == nil {
			return out, nil
		}
		if attempt == attempts {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		timer := time.NewTimer(cfg.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("%d attempts: %w", attempts, err)
}
