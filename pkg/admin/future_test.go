package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureGet(t *testing.T) {
	f := newFuture[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.complete(42, nil)
	}()

	v, err := f.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// Get again returns the same result.
	v, err = f.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFutureGetAbandoned(t *testing.T) {
	f := newFuture[int]()

	// A caller can abandon waiting; only the waiting stops.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Get(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	f.complete(7, nil)
	v, err := f.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFutureCompletesOnce(t *testing.T) {
	f := newFuture[int]()
	f.complete(1, nil)
	f.complete(2, errors.New("too late"))

	v, err := f.Get(context.Background())
	require.NoError(t, err, "first completion wins")
	assert.Equal(t, 1, v)
}

func TestFutureJoinPanics(t *testing.T) {
	f := newFuture[int]()
	f.complete(0, errors.New("boom"))

	assert.Panics(t, func() {
		f.Join()
	})
}

func TestFutureErr(t *testing.T) {
	f := newFuture[int]()
	boom := errors.New("boom")
	f.complete(0, boom)

	assert.ErrorIs(t, f.Err(), boom)

	done := false
	select {
	case <-f.Done():
		done = true
	default:
	}
	assert.True(t, done)
}
