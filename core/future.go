package core

import (
	"context"
	"sync"
)

// Future is the deferred result of an extraction. It is completed exactly
// once; later completions are ignored.
//
// Built-in extractors return futures that are already resolved. Extractors
// that need further I/O hand out a pending future from NewPromise and resolve
// it when the value is ready.
//
// A Future holds no goroutine of its own. Continuations registered with Then
// run on whichever goroutine resolves it, so a future that is never resolved
// is simply garbage collected together with its continuations.
type Future[T any] struct {
	ch chan struct{}

	mu    sync.Mutex
	done  bool
	val   T
	err   error
	conts []func()
}

// Ready returns a future already resolved with (v, err).
func Ready[T any](v T, err error) *Future[T] {
	f := &Future[T]{ch: make(chan struct{}), done: true, val: v, err: err}
	close(f.ch)
	return f
}

// NewPromise returns a pending future and the function that resolves it.
func NewPromise[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{ch: make(chan struct{})}
	return f, f.resolve
}

func (f *Future[T]) resolve(v T, err error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return
	}
	f.done = true
	f.val, f.err = v, err
	conts := f.conts
	f.conts = nil
	close(f.ch)
	f.mu.Unlock()

	for _, fn := range conts {
		fn()
	}
}

// onResolve runs fn once f is resolved: immediately if it already is,
// otherwise on the resolving goroutine.
func (f *Future[T]) onResolve(fn func()) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		fn()
		return
	}
	f.conts = append(f.conts, fn)
	f.mu.Unlock()
}

// Done returns a channel closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.ch
}

// Wait blocks until the future resolves or ctx is done. A ctx interruption
// is reported as a KindCanceled SystemError.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.ch:
		return f.val, f.err
	default:
	}
	select {
	case <-f.ch:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, IntoSystemError(ctx.Err())
	}
}

// Poll reports whether the future has resolved and, if so, its outcome.
func (f *Future[T]) Poll() (T, bool, error) {
	select {
	case <-f.ch:
		return f.val, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}

// Then maps the outcome of f. If f is already resolved, fn runs on the
// caller's goroutine and the returned future is resolved on return.
// Otherwise fn runs when f is resolved.
func Then[T, U any](f *Future[T], fn func(T, error) (U, error)) *Future[U] {
	if v, ok, err := f.Poll(); ok {
		return Ready(fn(v, err))
	}
	out, resolve := NewPromise[U]()
	f.onResolve(func() {
		resolve(fn(f.val, f.err))
	})
	return out
}
