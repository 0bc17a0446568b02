package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyStatus(t *testing.T) {
	err := Classify(status.Error(codes.NotFound, "no such table"))
	assert.ErrorIs(t, err, ErrNotFound)

	err = Classify(status.Error(codes.FailedPrecondition, "wrong state"))
	assert.ErrorIs(t, err, ErrIllegalState)

	err = Classify(status.Error(codes.PermissionDenied, "meta"))
	assert.ErrorIs(t, err, ErrProtectedResource)
}

func TestClassifyPassthrough(t *testing.T) {
	// Taxonomy errors survive wrapping and classification untouched.
	wrapped := fmt.Errorf("while disabling: %w", ErrIllegalState)
	assert.Equal(t, wrapped, Classify(wrapped))
	assert.ErrorIs(t, Classify(wrapped), ErrIllegalState)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(ErrInvalidArgument))
	assert.False(t, Retryable(fmt.Errorf("wrap: %w", ErrAlreadyExists)))
	assert.False(t, Retryable(ErrIllegalState))
	assert.False(t, Retryable(ErrProtectedResource))
	assert.False(t, Retryable(ErrTimeout))
	assert.False(t, Retryable(status.Error(codes.NotFound, "gone")))

	assert.True(t, Retryable(ErrNotServing))
	assert.True(t, Retryable(status.Error(codes.Unavailable, "conn refused")))
	assert.True(t, Retryable(errors.New("some transient io thing")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, codes.OK, Code(nil))
	assert.Equal(t, codes.InvalidArgument, Code(ErrInvalidArgument))
	assert.Equal(t, codes.AlreadyExists, Code(ErrAlreadyExists))
	assert.Equal(t, codes.NotFound, Code(ErrNotFound))
	assert.Equal(t, codes.FailedPrecondition, Code(ErrIllegalState))
	assert.Equal(t, codes.PermissionDenied, Code(ErrProtectedResource))
	assert.Equal(t, codes.Unavailable, Code(ErrNotServing))
	assert.Equal(t, codes.DeadlineExceeded, Code(ErrTimeout))
	assert.Equal(t, codes.Unknown, Code(errors.New("whatever")))
}

func TestRetriesExhausted(t *testing.T) {
	cause := status.Error(codes.Unavailable, "conn refused")
	err := &RetriesExhaustedError{Attempts: 4, Cause: cause}

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "4 attempts")
}
