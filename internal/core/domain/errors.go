package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNoStoreConfigured indicates no remote corpus is recorded locally.
	ErrNoStoreConfigured = errors.New("no store configured")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrStoreStale indicates the recorded corpus no longer exists remotely.
	// Local state has been cleared when this is returned.
	ErrStoreStale = errors.New("store no longer exists remotely")

	// ErrRemoteDeleteFailed indicates the remote corpus could not be deleted.
	// Local state is unchanged and the operation may be retried.
	ErrRemoteDeleteFailed = errors.New("remote delete failed")

	// ErrUploadFailed indicates a document upload or indexing failed.
	ErrUploadFailed = errors.New("upload failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransport indicates the remote service could not be reached
	// or answered with an unexpected failure.
	ErrTransport = errors.New("transport error")

	// ErrStale indicates data was served from the local cache because
	// the remote service was unavailable.
	ErrStale = errors.New("stale data")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnauthorized indicates the API key is missing or rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// OpError describes a failed operation.
// It unwraps to both its Kind (one of the sentinels above) and the
// underlying cause, so errors.Is works against either.
type OpError struct {
	Op     string
	Target string
	Kind   error
	Err    error
}

// NewOpError builds an OpError. Target may be empty.
func NewOpError(op, target string, kind, err error) *OpError {
	return &OpError{Op: op, Target: target, Kind: kind, Err: err}
}

func (e *OpError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Err != nil && e.Err != e.Kind {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the kind and the cause.
func (e *OpError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil && e.Err != e.Kind {
		errs = append(errs, e.Err)
	}
	return errs
}

// IsRetryable reports whether err leaves local state unchanged and the
// same operation may simply be attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrRemoteDeleteFailed) ||
		errors.Is(err, ErrRateLimited)
}

// Warning is a non-fatal failure reported alongside a successful result.
type Warning struct {
	Op  string
	Err error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("warning: %s: %v", w.Op, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}
