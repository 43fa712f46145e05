package core

import (
	"context"
	"time"
)

// RetryPolicy is an explicit value decoupled from the transport so the loop
// can be unit-tested with an injected wait function instead of wall-clock
// sleeps. Attempt numbering starts at 1.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	return p.Backoff(attempt)
}

// LinearBackoff grows the delay by one step per attempt: step × attempt.
func LinearBackoff(step time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return step * time.Duration(attempt)
	}
}

func DefaultRetryPolicy() RetryPolicy {
	return DefaultConfig().RetryPolicy()
}

// WaitFunc suspends between retry attempts. Tests inject a no-op.
type WaitFunc func(ctx context.Context, delay time.Duration) error

func WaitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
