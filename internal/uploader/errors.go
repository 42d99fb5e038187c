package uploader

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTarget is returned by DispatchAll when no album can be
	// resolved for the upload target. No job is touched.
	ErrMissingTarget = errors.New("no album resolved for upload target")

	// ErrCancelled marks a user-initiated abort, distinct from transport
	// failures.
	ErrCancelled = errors.New("cancelled")

	// ErrInvalidState is returned when an operation is not valid for the
	// job's current status (e.g. Retry on a job that is not in error).
	ErrInvalidState = errors.New("invalid job state")

	// ErrJobNotFound is returned when the job id is not in the queue.
	ErrJobNotFound = errors.New("job not found")
)

// TransferError wraps a network/transport failure during the byte upload.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// RegistrationError means the bytes were stored but the backend rejected the
// metadata registration. The message makes clear the upload itself succeeded;
// the orphaned object is not reconciled by the client.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("upload stored but registration failed: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
