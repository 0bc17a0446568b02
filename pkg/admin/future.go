package admin

import (
	"context"
	"sync"
)

// Void is the result type of futures which only succeed or fail.
type Void struct{}

// Future is the result of an asynchronous admin operation. It
// completes exactly once, with either a value or an error, never both
// and never neither.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(val T, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// Done is closed when the future completes. Abandoning a future is
// always safe: only the caller's waiting stops, the in-flight
// operation is not aborted remotely.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the future completes or the context is done, then
// returns the value or the error.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Join blocks until the future completes and returns the value,
// panicking on error. The unchecked twin of Get, for callers which
// treat any failure as fatal.
func (f *Future[T]) Join() T {
	<-f.done
	if f.err != nil {
		panic(f.err)
	}
	return f.val
}

// Err blocks until the future completes and returns its error, if
// any.
func (f *Future[T]) Err() error {
	<-f.done
	return f.err
}
