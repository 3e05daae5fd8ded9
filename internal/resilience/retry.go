// Package resilience wraps remote or storage lookups with a bounded retry and
// an explicit fallback value.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

// Lookup fetches a value by key.
type Lookup[T any] func(ctx context.Context, key string) (T, error)

// Fallback produces the substitute value once every attempt has failed.
// lastErr is the error from the final attempt.
type Fallback[T any] func(key string, lastErr error) T

// Policy bounds how a Lookup is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	// Delay is the pause between attempts. Must be positive.
	Delay time.Duration
	// IsFatal marks errors that must be returned immediately, without
	// further attempts and without the fallback.
	IsFatal func(error) bool
	// Notify is called after every failed, non-fatal attempt.
	Notify func(err error, attempt int)
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// WithFallback decorates lookup so that transient failures are retried up to
// p.Attempts times. When the attempts run out, fallback's value is returned
// with a nil error. Fatal errors and context cancellation are never masked.
// A nil fallback returns the last error instead.
func WithFallback[T any](lookup Lookup[T], p Policy, fallback Fallback[T]) Lookup[T] {
	clk := p.Clock
	if clk == nil {
		clk = clock.WallClock
	}

	return func(ctx context.Context, key string) (T, error) {
		var (
			zero   T
			result T
		)
		err := retry.Call(retry.CallArgs{
			Func: func() error {
				value, err := lookup(ctx, key)
				if err != nil {
					return err
				}
				result = value
				return nil
			},
			IsFatalError: func(err error) bool {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return true
				}
				return p.IsFatal != nil && p.IsFatal(err)
			},
			NotifyFunc: p.Notify,
			Attempts:   p.Attempts,
			Delay:      p.Delay,
			Clock:      clk,
			Stop:       ctx.Done(),
		})
		switch {
		case err == nil:
			return result, nil
		case retry.IsAttemptsExceeded(err):
			if fallback == nil {
				return zero, retry.LastError(err)
			}
			return fallback(key, retry.LastError(err)), nil
		case retry.IsRetryStopped(err):
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			return zero, retry.LastError(err)
		default:
			return zero, err
		}
	}
}
