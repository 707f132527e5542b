package stripe

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Static errors for err113 compliance.
var (
	ErrFutureCanceled = errors.New("call canceled")
)

type outcome[T any] struct {
	value *T
	err   error
}

// Future is the handle of a call started with SendAsync. Its result is
// delivered at most once, and never after Cancel.
type Future[T any] struct {
	cancel  context.CancelFunc
	done    chan struct{}
	aborted chan struct{}

	mutex    sync.Mutex
	canceled bool
	settled  bool
	result   outcome[T]
}

// SendAsync starts Send in a goroutine and returns its handle. Cancel aborts
// the exchange and guarantees no result is delivered. Cancelling ctx instead
// also aborts the exchange, but the handle still settles: Wait returns the
// resulting *TransportError.
func SendAsync[T any](ctx context.Context, h *APIHandler, spec RequestSpec) *Future[T] {
	callCtx, cancel := context.WithCancel(ctx)

	future := &Future[T]{
		cancel:  cancel,
		done:    make(chan struct{}),
		aborted: make(chan struct{}),
	}

	go func() {
		defer cancel()

		value, err := Send[T](callCtx, h, spec)
		future.settle(outcome[T]{value: value, err: err})
	}()

	return future
}

func (f *Future[T]) settle(result outcome[T]) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.canceled || f.settled {
		return
	}

	f.settled = true
	f.result = result
	close(f.done)
}

// Done is closed once the result is available. It is never closed for a
// future canceled before completion.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Cancel aborts the call. If the result has not been delivered yet it never
// will be: Wait returns ErrFutureCanceled from then on. Cancel after delivery
// has no effect.
func (f *Future[T]) Cancel() {
	f.mutex.Lock()
	if !f.settled && !f.canceled {
		f.canceled = true
		close(f.aborted)
	}
	f.mutex.Unlock()

	f.cancel()
}

// Wait blocks until the result is available, the future is canceled, or ctx
// is done.
func (f *Future[T]) Wait(ctx context.Context) (*T, error) {
	if f.isCanceled() {
		return nil, ErrFutureCanceled
	}

	select {
	case <-f.done:
		return f.result.value, f.result.err
	case <-f.aborted:
		return nil, ErrFutureCanceled
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for call: %w", ctx.Err())
	}
}

func (f *Future[T]) isCanceled() bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.canceled
}
