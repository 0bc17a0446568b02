package api

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// The error taxonomy shared by the client and the master. Errors are
// wrapped with context via fmt.Errorf("%w: ...", ...) and classified
// with errors.Is, so the kind survives any number of wraps.
var (
	// ErrInvalidArgument means the input was malformed and was (or
	// should have been) rejected before any RPC: empty or duplicate
	// split keys, blank server names, bad region counts.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")

	// ErrIllegalState means the operation isn't legal in the table's
	// current state, e.g. delete while enabled.
	ErrIllegalState = errors.New("illegal state")

	// ErrProtectedResource means the operation targeted the meta
	// table, which can never be disabled or deleted.
	ErrProtectedResource = errors.New("protected resource")

	// ErrNotServing means the region isn't currently hosted where the
	// caller expected.
	ErrNotServing = errors.New("not serving")

	// ErrTimeout means the operation bound elapsed. The outcome is
	// UNKNOWN: the remote effect may still have completed. Callers
	// must not treat this as "did not happen".
	ErrTimeout = errors.New("operation timed out")
)

// RetriesExhaustedError is returned when the retry policy gives up. It
// wraps the last underlying cause.
type RetriesExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Cause
}

// Code maps an error to the gRPC status code it crosses the wire as.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrInvalidArgument):
		return codes.InvalidArgument
	case errors.Is(err, ErrAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, ErrNotFound):
		return codes.NotFound
	case errors.Is(err, ErrIllegalState):
		return codes.FailedPrecondition
	case errors.Is(err, ErrProtectedResource):
		return codes.PermissionDenied
	case errors.Is(err, ErrNotServing):
		return codes.Unavailable
	case errors.Is(err, ErrTimeout):
		return codes.DeadlineExceeded
	}
	return codes.Unknown
}

// Classify converts an error received from a remote call into the
// matching taxonomy error, so callers can use errors.Is regardless of
// whether the master was in-process or across the wire.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	// Already one of ours (in-process master, or wrapped).
	for _, kind := range []error{
		ErrInvalidArgument, ErrAlreadyExists, ErrNotFound,
		ErrIllegalState, ErrProtectedResource, ErrNotServing,
		ErrTimeout,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}

	// Not one of ours; try the wire representation.

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.InvalidArgument:
			return fmt.Errorf("%w: %s", ErrInvalidArgument, s.Message())
		case codes.AlreadyExists:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, s.Message())
		case codes.NotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, s.Message())
		case codes.FailedPrecondition:
			return fmt.Errorf("%w: %s", ErrIllegalState, s.Message())
		case codes.PermissionDenied:
			return fmt.Errorf("%w: %s", ErrProtectedResource, s.Message())
		case codes.DeadlineExceeded:
			return fmt.Errorf("%w: %s", ErrTimeout, s.Message())
		}
	}

	return err
}

// Retryable reports whether the retry policy should try again after
// this error. Validation and state errors never become true on retry,
// so only transport-ish failures qualify.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	err = Classify(err)
	for _, kind := range []error{
		ErrInvalidArgument, ErrAlreadyExists, ErrNotFound,
		ErrIllegalState, ErrProtectedResource, ErrTimeout,
	} {
		if errors.Is(err, kind) {
			return false
		}
	}

	return true
}
