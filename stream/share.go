package stream

// fanout delivers signals to an ordered listener list.
// Signals raised during a dispatch are queued so every listener observes the
// same sequence.
type fanout[T any] struct {
	listeners []*Emitter[T]
	queue     []Signal[T]
	busy      bool

	last T
	has  bool
}

func (f *fanout[T]) push(s Signal[T]) {
	f.queue = append(f.queue, s)
	if f.busy {
		return
	}
	f.busy = true
	for len(f.queue) > 0 {
		next := f.queue[0]
		f.queue[0] = Signal[T]{}
		f.queue = f.queue[1:]
		f.dispatch(next)
	}
	f.queue = nil
	f.busy = false
}

func (f *fanout[T]) dispatch(s Signal[T]) {
	switch s.Kind {
	case Data:
		f.last, f.has = s.Value, true
		// Listeners joining during this dispatch wait for the next value
		for _, l := range snapshot(f.listeners) {
			l.Next(s.Value)
		}
	case End:
		ls := f.listeners
		f.listeners = nil
		for _, l := range ls {
			l.End(s.Err)
		}
	}
}

func (f *fanout[T]) add(e *Emitter[T]) {
	f.listeners = append(f.listeners, e)
}

func (f *fanout[T]) remove(e *Emitter[T]) {
	for i, l := range f.listeners {
		if l == e {
			f.listeners = append(f.listeners[:i:i], f.listeners[i+1:]...)
			return
		}
	}
}

func (f *fanout[T]) forget() {
	var zero T
	f.last, f.has = zero, false
}

// Share multicasts one upstream subscription to every subscriber.
// The upstream is connected by the first subscriber and canceled when the last
// one leaves. Subscribers are notified in subscription order.
func Share[T any](src Source[T]) Source[T] {
	s := &shared[T]{src: src}
	return s.subscribe
}

// Remember is Share that also replays the latest value to late subscribers
func Remember[T any](src Source[T]) Source[T] {
	s := &shared[T]{src: src, replay: true}
	return s.subscribe
}

type shared[T any] struct {
	src       Source[T]
	replay    bool
	fan       fanout[T]
	upstream  *Handle
	connected bool
	gen       int
}

func (s *shared[T]) subscribe(sink Sink[T]) {
	Create(func(e *Emitter[T]) func() {
		s.fan.add(e)
		if s.replay && s.fan.has {
			e.Next(s.fan.last)
		}
		if !s.connected {
			s.connect()
		}
		return func() { s.leave(e) }
	})(sink)
}

func (s *shared[T]) connect() {
	s.connected = true
	s.gen++
	gen := s.gen
	h := Subscribe(s.src, func(v T) {
		s.fan.push(Signal[T]{Kind: Data, Value: v})
	}, func(err error) {
		if gen != s.gen || !s.connected {
			return
		}
		s.disconnect()
		s.fan.push(Signal[T]{Kind: End, Err: err})
	})
	if s.connected && gen == s.gen {
		s.upstream = h
	}
}

func (s *shared[T]) leave(e *Emitter[T]) {
	s.fan.remove(e)
	if len(s.fan.listeners) == 0 && s.connected {
		up := s.upstream
		s.disconnect()
		up.Cancel()
	}
}

func (s *shared[T]) disconnect() {
	s.connected = false
	s.upstream = nil
	s.fan.forget()
}

// Broadcast is a hot source fed imperatively.
// Listeners present at the time of Next receive the value in subscription order.
type Broadcast[T any] struct {
	fan      fanout[T]
	ended    bool
	err      error
	remember bool
}

// NewBroadcast creates an empty broadcast
func NewBroadcast[T any]() *Broadcast[T] {
	return &Broadcast[T]{}
}

// NewRememberBroadcast creates a broadcast replaying its latest value to new listeners
func NewRememberBroadcast[T any]() *Broadcast[T] {
	return &Broadcast[T]{remember: true}
}

// Next delivers v to current listeners. Ignored after End.
func (b *Broadcast[T]) Next(v T) {
	if b.ended {
		return
	}
	b.fan.push(Signal[T]{Kind: Data, Value: v})
}

// End completes every listener. Listeners joining later are completed immediately.
func (b *Broadcast[T]) End(err error) {
	if b.ended {
		return
	}
	b.ended = true
	b.err = err
	b.fan.push(Signal[T]{Kind: End, Err: err})
}

// Source returns the subscribable side of the broadcast
func (b *Broadcast[T]) Source() Source[T] {
	return Create(func(e *Emitter[T]) func() {
		if b.ended {
			e.End(b.err)
			return nil
		}
		b.fan.add(e)
		if b.remember && b.fan.has {
			e.Next(b.fan.last)
		}
		return func() { b.fan.remove(e) }
	})
}

// Listeners returns the number of active listeners
func (b *Broadcast[T]) Listeners() int {
	return len(b.fan.listeners)
}

// Latest returns the last value delivered, if any
func (b *Broadcast[T]) Latest() (T, bool) {
	return b.fan.last, b.fan.has
}

func snapshot[T any](ls []*Emitter[T]) []*Emitter[T] {
	out := make([]*Emitter[T], len(ls))
	copy(out, ls)
	return out
}
