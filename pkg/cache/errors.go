package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by the cache and the HTTP fetch layer.
var (
	// ErrNotFound reports that the remote resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a transport failure: timeout, connection error, or
	// a 5xx response.
	ErrNetwork = errors.New("network error")
)

const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// RetryableError marks an error as transient. RetryWithBackoff retries only
// errors carrying this marker; everything else fails on the first attempt.
type RetryableError struct{ Err error }

// Error returns the message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries the RetryableError marker.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay between
// attempts (1s, 2s). Non-retryable errors and context cancellation end the
// loop immediately; the last error is returned once attempts are exhausted.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryBaseDelay

	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == retryAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
