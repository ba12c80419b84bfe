package stream

// Emitter is the producer side of one subscription created by Create
type Emitter[T any] struct {
	sink     Sink[T]
	handle   *Handle
	teardown func()

	closed bool // no further emissions accepted
	busy   bool // a signal is being delivered
	queue  []Signal[T]
}

// Create builds a Source from a producer function.
// produce runs once per subscription after Start has been delivered and may emit
// synchronously or later. The returned teardown runs exactly once when the
// subscription ends, whichever side ends it.
func Create[T any](produce func(e *Emitter[T]) (teardown func())) Source[T] {
	return func(sink Sink[T]) {
		e := &Emitter[T]{sink: sink}
		e.handle = NewHandle(e.cancel)
		e.deliver(Signal[T]{Kind: Start, Handle: e.handle})
		if e.closed {
			return
		}
		td := produce(e)
		if e.closed {
			if td != nil {
				td()
			}
			return
		}
		e.teardown = td
	}
}

// Next emits a value. Ignored after the subscription ended.
func (e *Emitter[T]) Next(v T) {
	if e.closed {
		return
	}
	e.deliver(Signal[T]{Kind: Data, Value: v})
}

// End terminates the subscription, err nil meaning normal completion.
// Only the first call has effect.
func (e *Emitter[T]) End(err error) {
	if e.closed {
		return
	}
	e.finish(err)
}

// Closed reports whether the subscription has ended or is ending
func (e *Emitter[T]) Closed() bool {
	return e.closed
}

// Handle returns the subscription's cancellation handle
func (e *Emitter[T]) Handle() *Handle {
	return e.handle
}

func (e *Emitter[T]) cancel() {
	if e.closed {
		return
	}
	// Undelivered data must not reach a subscriber that asked to stop
	kept := e.queue[:0]
	for _, s := range e.queue {
		if s.Kind != Data {
			kept = append(kept, s)
		}
	}
	e.queue = kept
	e.finish(ErrCanceled)
}

func (e *Emitter[T]) finish(err error) {
	e.closed = true
	e.handle.done.Store(true)
	if td := e.teardown; td != nil {
		e.teardown = nil
		td()
	}
	e.deliver(Signal[T]{Kind: End, Err: err})
}

// deliver queues the signal and drains the queue unless a delivery is in progress
func (e *Emitter[T]) deliver(s Signal[T]) {
	e.queue = append(e.queue, s)
	if e.busy {
		return
	}
	e.busy = true
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue[0] = Signal[T]{}
		e.queue = e.queue[1:]
		e.sink(next)
	}
	e.queue = nil
	e.busy = false
}

// Subscribe starts a subscription delivering values to next and the terminal error to end.
// Either callback may be nil. The returned handle is valid even when the source
// acknowledges Start asynchronously.
func Subscribe[T any](src Source[T], next func(T), end func(error)) *Handle {
	var upstream *Handle
	canceled := false
	h := NewHandle(func() {
		canceled = true
		upstream.Cancel()
	})
	src(func(s Signal[T]) {
		switch s.Kind {
		case Start:
			upstream = s.Handle
			if canceled {
				upstream.Cancel()
			}
		case Data:
			if next != nil && !canceled {
				next(s.Value)
			}
		case End:
			h.done.Store(true)
			if end != nil {
				end(s.Err)
			}
		}
	})
	return h
}

// ForEach subscribes for values only
func ForEach[T any](src Source[T], next func(T)) *Handle {
	return Subscribe(src, next, nil)
}
