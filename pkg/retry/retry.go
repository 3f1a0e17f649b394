// Package retry repeats a fallible call with a backoff between attempts.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const defaultDelay = 100 * time.Millisecond

// Backoff returns the wait after the given failed attempt, starting at 1.
type Backoff func(attempt int) time.Duration

type ShouldRetry func(error) bool

type RetryConfig struct {
	// MaxAttempts counts the first call, values below 1 mean a single call.
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry

	// OnRetry is called before each wait with the failed attempt number.
	OnRetry func(attempt int, err error, wait time.Duration)
}

func (c RetryConfig) withDefaults() RetryConfig {
	c.MaxAttempts = max(c.MaxAttempts, 1)
	if c.Backoff == nil {
		c.Backoff = ExponentialBackoff(defaultDelay)
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = func(error) bool { return true }
	}
	if c.OnRetry == nil {
		c.OnRetry = func(int, error, time.Duration) {}
	}
	return c
}

// maxWait keeps a backoff and its jitter within time.Duration.
const maxWait = time.Duration(math.MaxInt64 / 2)

// ExponentialBackoff doubles delay on every attempt and adds up to half of it
// as jitter. The base saturates at maxWait.
func ExponentialBackoff(delay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if delay <= 0 {
			return 0
		}
		shift := min(max(attempt, 0), 62)
		base := maxWait
		if delay <= maxWait>>shift {
			base = delay << shift
		}
		if base < 2 {
			return base
		}
		return base + time.Duration(rand.Int64N(int64(base/2))+1)
	}
}

// CappedBackoff limits the waits of b to [0, ceiling].
func CappedBackoff(b Backoff, ceiling time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return max(min(b(attempt), ceiling), 0)
	}
}

func ConstantBackoff(delay time.Duration) Backoff {
	return func(int) time.Duration {
		return delay
	}
}

func Do(ctx context.Context, c RetryConfig, fn func() error) error {
	_, err := DoWithResult(ctx, c, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult calls fn until it succeeds, returns an error ShouldRetry
// rejects, or MaxAttempts is reached. No wait follows the last attempt.
func DoWithResult[T any](
	ctx context.Context, c RetryConfig, fn func() (T, error),
) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c = c.withDefaults()
	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt >= c.MaxAttempts || !c.ShouldRetry(err) {
			return zero, err
		}

		wait := c.Backoff(attempt)
		c.OnRetry(attempt, err, wait)
		if werr := sleep(ctx, wait); werr != nil {
			return zero, fmt.Errorf("%w: %w", werr, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
