// Package syncerr contains the error types of a reconciliation pass.
package syncerr

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryableError marks an error as transient.
// Operations are never retried within a pass, the type only tells if the
// next scheduled pass has a chance to succeed.
type RetryableError struct {
	// Err is the wrapped original error
	Err error
	// After is the earliest point in time that the operation can be retried
	After time.Time
}

func NewRetryableError(originalErr error, retryAfter time.Time) *RetryableError {
	return &RetryableError{
		Err:   originalErr,
		After: retryAfter,
	}
}

func NewRetryableAnytimeError(originalErr error) *RetryableError {
	return &RetryableError{
		Err: originalErr,
	}
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func (e *RetryableError) Error() string {
	if e.After.IsZero() {
		return fmt.Sprintf("retryable error: %s", e.Err)
	}

	return fmt.Sprintf("retryable error (after %s): %s", e.After, e.Err)
}

// ConfigError is returned when the configuration or the credential is
// invalid. It is fatal, no network call happens.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Err)
}

// UpstreamQueryError is returned when the open pull requests of the upstream
// repository could not be retrieved. It aborts the pass.
type UpstreamQueryError struct {
	Owner      string
	Repository string
	Err        error
}

func (e *UpstreamQueryError) Unwrap() error {
	return e.Err
}

func (e *UpstreamQueryError) Error() string {
	return fmt.Sprintf("querying pull requests of %s/%s failed: %s", e.Owner, e.Repository, e.Err)
}

// MirrorLookupError is a failed mirror state lookup that was not a not-found
// response.
type MirrorLookupError struct {
	PullRequest  int
	MirrorBranch string
	Err          error
}

func (e *MirrorLookupError) Unwrap() error {
	return e.Err
}

func (e *MirrorLookupError) Error() string {
	return fmt.Sprintf("looking up mirror state of pr #%d on branch %q failed: %s", e.PullRequest, e.MirrorBranch, e.Err)
}

// DispatchError is a failed workflow dispatch for a single pull request.
type DispatchError struct {
	PullRequest  int
	MirrorBranch string
	Err          error
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatching ci workflow for pr #%d, mirror branch %q failed: %s", e.PullRequest, e.MirrorBranch, e.Err)
}

// IsRetryable returns true if err wraps a RetryableError.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// LogFields returns the fields describing if err is transient.
func LogFields(err error) []zap.Field {
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) {
		return []zap.Field{zap.Bool("retryable", false)}
	}

	if retryErr.After.IsZero() {
		return []zap.Field{zap.Bool("retryable", true)}
	}

	return []zap.Field{
		zap.Bool("retryable", true),
		zap.Time("retry_after", retryErr.After),
	}
}
