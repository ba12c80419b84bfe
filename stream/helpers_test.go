package stream

import "testing"

// recorder captures every signal of one subscription
type recorder[T any] struct {
	t      *testing.T
	handle *Handle
	starts int
	values []T
	ends   int
	err    error
}

func record[T any](t *testing.T, src Source[T]) *recorder[T] {
	t.Helper()
	r := &recorder[T]{t: t}
	src(func(s Signal[T]) {
		switch s.Kind {
		case Start:
			if r.starts > 0 || len(r.values) > 0 || r.ends > 0 {
				t.Errorf("start delivered out of order")
			}
			r.starts++
			r.handle = s.Handle
		case Data:
			if r.starts == 0 {
				t.Errorf("data %v delivered before start", s.Value)
			}
			if r.ends > 0 {
				t.Errorf("data %v delivered after end", s.Value)
			}
			r.values = append(r.values, s.Value)
		case End:
			r.ends++
			r.err = s.Err
		}
	})
	return r
}

// counting wraps a source and counts live subscriptions and teardowns
type counting[T any] struct {
	src       Source[T]
	live      int
	torn      int
	subscribe int
}

func newCounting[T any](src Source[T]) *counting[T] {
	return &counting[T]{src: src}
}

func (c *counting[T]) Source() Source[T] {
	return Create(func(e *Emitter[T]) func() {
		c.live++
		c.subscribe++
		h := Subscribe(c.src, e.Next, e.End)
		return func() {
			c.live--
			c.torn++
			h.Cancel()
		}
	})
}
