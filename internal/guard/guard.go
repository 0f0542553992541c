// Package guard bounds arbitrary operations with a hard wall-clock deadline.
package guard

import (
	"context"
	"errors"
	"time"
)

// ErrTimedOut is returned when an operation does not finish within its
// deadline. It carries nothing from the operation itself.
var ErrTimedOut = errors.New("guard: operation timed out")

type outcome[T any] struct {
	value T
	err   error
}

// Run executes op on its own goroutine and waits at most timeout for it to
// finish. If op completes in time, its result and error are returned exactly
// as produced. If the deadline elapses first, Run returns ErrTimedOut and
// stops waiting.
//
// The timeout is logical, not physical: op is never interrupted. It keeps
// running in the background until it returns on its own, and its eventual
// result is discarded. The result channel is buffered so the leaked goroutine
// never blocks on send. Callers that invoke Run repeatedly on slow operations
// accumulate leaked goroutines; use RunContext when op can honor cooperative
// cancellation.
//
// Each call owns its own goroutine and channel, so Run is safe to invoke
// concurrently.
func Run[T any](timeout time.Duration, op func() (T, error)) (T, error) {
	done := make(chan outcome[T], 1)
	go func() {
		value, err := op()
		done <- outcome[T]{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimedOut
	}
}

// RunContext is the cooperative variant of Run. The operation receives a
// context derived from ctx with the deadline applied; well-behaved operations
// observe it and return early, in which case no goroutine outlives the call.
// Operations that ignore the context leak exactly as with Run.
//
// When the parent context is canceled first, its error is returned instead of
// ErrTimedOut so callers can tell shutdown apart from a slow operation. An
// operation that reacts to the deadline quickly enough may win the race and
// surface its own error (typically context.DeadlineExceeded) rather than
// ErrTimedOut; both mean the deadline elapsed.
func RunContext[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		value, err := op(opCtx)
		done <- outcome[T]{value: value, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-opCtx.Done():
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, ErrTimedOut
	}
}
