package catalog

import (
	"context"
	"sync"
)

// Future is the eventual result of an operation that is already running.
// It settles exactly once, either resolved with a value or rejected with an
// error.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go starts fn on its own goroutine and returns a Future for its result.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		v, err := fn()
		if err != nil {
			f.reject(err)
			return
		}
		f.resolve(v)
	}()
	return f
}

func (f *Future[T]) resolve(v T) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

func (f *Future[T]) reject(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. Giving up on ctx
// does not cancel the underlying operation.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then runs exactly one of the handlers on a new goroutine after the future
// settles. Either handler may be nil. The returned channel is closed once the
// handler has returned.
func (f *Future[T]) Then(onResolve func(T), onReject func(error)) <-chan struct{} {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		<-f.done
		if f.err != nil {
			if onReject != nil {
				onReject(f.err)
			}
			return
		}
		if onResolve != nil {
			onResolve(f.value)
		}
	}()
	return finished
}
