package stream

import "errors"

// Pair holds one value from each of two sources
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple holds one value from each of three sources
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Merge forwards values from all sources in arrival order.
// Completes once every source has completed; fails on the first error.
func Merge[T any](srcs ...Source[T]) Source[T] {
	return Create(func(e *Emitter[T]) func() {
		if len(srcs) == 0 {
			e.End(nil)
			return nil
		}
		remaining := len(srcs)
		handles := make([]*Handle, 0, len(srcs))
		for _, src := range srcs {
			if e.Closed() {
				break
			}
			handles = append(handles, Subscribe(src, e.Next, func(err error) {
				if err != nil {
					e.End(err)
					return
				}
				remaining--
				if remaining == 0 {
					e.End(nil)
				}
			}))
		}
		return cancelAll(handles)
	})
}

// Combine holds the latest value of every source and emits a snapshot of all of
// them once each has emitted, then again on every subsequent value from any source.
// Completes when all sources complete, or when a source completes without ever
// emitting since no snapshot can be produced after that.
func Combine[T any](srcs ...Source[T]) Source[[]T] {
	return Create(func(e *Emitter[[]T]) func() {
		n := len(srcs)
		if n == 0 {
			e.End(nil)
			return nil
		}
		vals := make([]T, n)
		has := make([]bool, n)
		missing := n
		ended := 0
		handles := make([]*Handle, 0, n)
		for i, src := range srcs {
			if e.Closed() {
				break
			}
			handles = append(handles, Subscribe(src, func(v T) {
				vals[i] = v
				if !has[i] {
					has[i] = true
					missing--
				}
				if missing == 0 {
					snapshot := make([]T, n)
					copy(snapshot, vals)
					e.Next(snapshot)
				}
			}, func(err error) {
				if err != nil {
					e.End(err)
					return
				}
				ended++
				if !has[i] || ended == n {
					e.End(nil)
				}
			}))
		}
		return cancelAll(handles)
	})
}

// Combine2 is Combine over two sources of different types
func Combine2[A, B any](a Source[A], b Source[B]) Source[Pair[A, B]] {
	return Map(func(vs []any) Pair[A, B] {
		return Pair[A, B]{First: as[A](vs[0]), Second: as[B](vs[1])}
	})(Combine(a.Any(), b.Any()))
}

// Combine3 is Combine over three sources of different types
func Combine3[A, B, C any](a Source[A], b Source[B], c Source[C]) Source[Triple[A, B, C]] {
	return Map(func(vs []any) Triple[A, B, C] {
		return Triple[A, B, C]{First: as[A](vs[0]), Second: as[B](vs[1]), Third: as[C](vs[2])}
	})(Combine(a.Any(), b.Any(), c.Any()))
}

// Concat pairs the latest value of a with the latest value of b.
// The first pair is emitted once both have produced a value and a new pair
// follows every later value from either side. A side that completes keeps its
// last value; Concat completes when both sides have completed, or when a side
// completes without ever emitting.
func Concat[A, B any](a Source[A], b Source[B]) Source[Pair[A, B]] {
	return Create(func(e *Emitter[Pair[A, B]]) func() {
		var cur Pair[A, B]
		hasA, hasB := false, false
		ended := 0
		emit := func() {
			if hasA && hasB {
				e.Next(cur)
			}
		}
		end := func(has *bool) func(error) {
			return func(err error) {
				switch {
				case errors.Is(err, ErrCanceled):
					return
				case err != nil:
					e.End(err)
					return
				}
				ended++
				if !*has || ended == 2 {
					e.End(nil)
				}
			}
		}
		ha := Subscribe(a, func(v A) {
			cur.First, hasA = v, true
			emit()
		}, end(&hasA))
		if e.Closed() {
			return ha.Cancel
		}
		hb := Subscribe(b, func(v B) {
			cur.Second, hasB = v, true
			emit()
		}, end(&hasB))
		return func() {
			ha.Cancel()
			hb.Cancel()
		}
	})
}

func cancelAll(handles []*Handle) func() {
	return func() {
		for _, h := range handles {
			h.Cancel()
		}
	}
}

// as asserts v to T, yielding the zero value for a nil interface
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
