// Package load runs the data fetches of a view asynchronously. A view owns its
// tasks and closes them when it is torn down; a fetch that completes after that
// point has its result dropped instead of applied.
package load

import (
	"context"
	"sync"
)

// State is the view-facing snapshot of a task.
type State[T any] struct {
	Loading bool
	Value   T
	Err     error
}

type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
	state  State[T]
}

// Start runs fetch in its own goroutine. Cancelling c or calling Close cancels
// the context handed to fetch.
func Start[T any](c context.Context, fetch func(context.Context) (T, error)) *Task[T] {
	c, cancel := context.WithCancel(c)
	t := &Task[T]{
		cancel: cancel,
		done:   make(chan struct{}),
		state:  State[T]{Loading: true},
	}

	go func() {
		defer close(t.done)
		defer cancel()

		value, err := fetch(c)

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed || c.Err() != nil {
			return
		}
		t.state = State[T]{Value: value, Err: err}
	}()
	return t
}

// Wait blocks until the fetch finished or c is done. A task closed before its
// result was applied reports context.Canceled.
func (t *Task[T]) Wait(c context.Context) (T, error) {
	var zero T
	select {
	case <-c.Done():
		return zero, c.Err()
	case <-t.done:
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Loading {
		return zero, context.Canceled
	}
	return t.state.Value, t.state.Err
}

func (t *Task[T]) State() State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Close discards any result not yet applied and cancels the fetch. It does
// not wait for the fetch to return.
func (t *Task[T]) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.cancel()
}

// Done is closed once the fetch goroutine has exited.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}
