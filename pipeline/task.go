package pipeline

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// State is a task's lifecycle state. Pending transitions exactly once
// to one of the terminal states; there are no further transitions.
type State int32

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
	StateCanceled
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Task is the handle for one in-flight request. It owns the
// cancellation flag and the terminal-state slot; the slot transitions
// exactly once, via compare-and-swap, so a cancel racing natural
// completion produces exactly one completion delivery.
type Task struct {
	id       uuid.UUID
	state    atomic.Int32
	canceled atomic.Bool
	stop     context.CancelFunc
	done     chan struct{}
}

func newTask(stop context.CancelFunc) *Task {
	return &Task{
		id:   uuid.New(),
		stop: stop,
		done: make(chan struct{}),
	}
}

// ID returns the task's opaque identity.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// State returns the task's current state. A terminal state is final.
func (t *Task) State() State {
	return State(t.state.Load())
}

// Canceled reports whether Cancel has been called. The flag is
// monotonic: once set it never reverts, though the task may still
// terminate with its natural outcome if that transition won the race.
func (t *Task) Canceled() bool {
	return t.canceled.Load()
}

// Cancel requests cancellation. It is safe to call from any
// goroutine at any time and is a no-op after the task reached a
// terminal state. Cancellation is cooperative: pending parse stages
// are skipped and the delivered result becomes canceled, but network
// I/O already dispatched may not stop immediately.
func (t *Task) Cancel() {
	t.canceled.Store(true)
	t.stop()
}

// Done is closed when the task reaches a terminal state, after which
// the completion handler has been (or is being) delivered.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task terminates or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// transition attempts the single pending→terminal state change. Only
// the first caller wins; everyone else observes the stored state.
func (t *Task) transition(to State) bool {
	if !t.state.CompareAndSwap(int32(StatePending), int32(to)) {
		return false
	}

	close(t.done)

	return true
}
