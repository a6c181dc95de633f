package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate the operation may succeed if
// attempted again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. It returns nil for a nil error.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or any error it wraps, is a
// RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// LinearBackoff returns the wait after the given failed attempt:
// base × attempt. Attempts below 1 are treated as 1.
func LinearBackoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(max(attempt, 1))
}

// Sleep waits for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when interrupted. A non-positive d returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
