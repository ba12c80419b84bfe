package stream

import (
	"errors"
	"sync/atomic"
)

// ErrCanceled ends a subscription whose subscriber called Handle.Cancel
var ErrCanceled = errors.New("stream: subscription canceled")

// Kind tags a Signal
type Kind uint8

const (
	Start Kind = iota // carries Handle
	Data              // carries Value
	End               // carries Err, nil for normal completion
)

// String returns the signal kind name
func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Data:
		return "data"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Signal is one protocol message delivered to a Sink
type Signal[T any] struct {
	Kind   Kind
	Handle *Handle
	Value  T
	Err    error
}

// Sink receives the signals of one subscription
type Sink[T any] func(Signal[T])

// Source starts a new subscription each time it is invoked
type Source[T any] func(sink Sink[T])

// Transformer maps one source to another
type Transformer[A, B any] func(Source[A]) Source[B]

// Dynamic is implemented by every Source through Source.Any.
// Property and child values implementing it are treated as live values.
type Dynamic interface {
	Any() Source[any]
}

// Any erases the element type of the source
func (s Source[T]) Any() Source[any] {
	if erased, ok := any(s).(Source[any]); ok {
		return erased
	}
	return Map(func(v T) any { return v })(s)
}

// Handle cancels a subscription. Cancel is idempotent.
type Handle struct {
	done     atomic.Bool
	onCancel func()
}

// NewHandle returns a handle invoking fn on the first Cancel
func NewHandle(fn func()) *Handle {
	return &Handle{onCancel: fn}
}

// Cancel requests early termination. Safe to call on a nil handle.
func (h *Handle) Cancel() {
	if h == nil || !h.done.CompareAndSwap(false, true) {
		return
	}
	fn := h.onCancel
	h.onCancel = nil
	if fn != nil {
		fn()
	}
}

// Canceled reports whether Cancel has been called
func (h *Handle) Canceled() bool {
	return h != nil && h.done.Load()
}
