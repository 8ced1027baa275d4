// Package watch turns a periodic remote-status check into a single awaited
// outcome with cooperative timeout.
package watch

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the configured timeout elapses before the
// check observes a terminal state.
var ErrTimeout = errors.New("watch: timed out before terminal state")

// CheckFunc inspects remote state once. Returning done=true delivers result
// to the caller; returning an error terminates the watch immediately.
type CheckFunc[T any] func(ctx context.Context) (result T, done bool, err error)

// Options controls the polling cadence.
type Options struct {
	Interval time.Duration // required; delay between checks
	Timeout  time.Duration // optional; zero means no timeout
}

// Poll runs check every Interval until it reports done, fails, times out, or
// ctx is cancelled. The ticker and timer are always released before Poll
// returns, so no tick can fire after the outcome is delivered.
func Poll[T any](ctx context.Context, opts Options, check CheckFunc[T]) (T, error) {
	var zero T

	if opts.Interval <= 0 {
		panic("watch: non-positive poll interval")
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var timeoutC <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-timeoutC:
			return zero, ErrTimeout
		case <-ticker.C:
			result, done, err := check(ctx)
			if err != nil {
				return zero, err
			}
			if done {
				return result, nil
			}
		}
	}
}
