package stream

import "errors"

// Map applies fn to every value
func Map[A, B any](fn func(A) B) Transformer[A, B] {
	return func(src Source[A]) Source[B] {
		return Create(func(e *Emitter[B]) func() {
			return Subscribe(src, func(v A) { e.Next(fn(v)) }, e.End).Cancel
		})
	}
}

// Filter forwards values satisfying pred
func Filter[T any](pred func(T) bool) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			return Subscribe(src, func(v T) {
				if pred(v) {
					e.Next(v)
				}
			}, e.End).Cancel
		})
	}
}

// Fold accumulates values starting from seed and emits the accumulator on every
// upstream value. The seed itself is not emitted; pipe through StartWith for that.
func Fold[T, A any](fn func(acc A, v T) A, seed A) Transformer[T, A] {
	return func(src Source[T]) Source[A] {
		return Create(func(e *Emitter[A]) func() {
			acc := seed
			return Subscribe(src, func(v T) {
				acc = fn(acc, v)
				e.Next(acc)
			}, e.End).Cancel
		})
	}
}

// StartWith emits seed synchronously on subscribe, then forwards the source
func StartWith[T any](seed T) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			e.Next(seed)
			if e.Closed() {
				return nil
			}
			return Subscribe(src, e.Next, e.End).Cancel
		})
	}
}

// To replaces every value with v
func To[T, V any](v V) Transformer[T, V] {
	return Map(func(T) V { return v })
}

// Tap calls fn for every value and forwards it unchanged
func Tap[T any](fn func(T)) Transformer[T, T] {
	return Map(func(v T) T {
		fn(v)
		return v
	})
}

// Take forwards the first n values then completes
func Take[T any](n int) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			if n <= 0 {
				e.End(nil)
				return nil
			}
			seen := 0
			return Subscribe(src, func(v T) {
				seen++
				e.Next(v)
				if seen >= n {
					e.End(nil)
				}
			}, e.End).Cancel
		})
	}
}

// Skip drops the first n values
func Skip[T any](n int) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			seen := 0
			return Subscribe(src, func(v T) {
				if seen < n {
					seen++
					return
				}
				e.Next(v)
			}, e.End).Cancel
		})
	}
}

// DropRepeats suppresses values equal to the previous one
func DropRepeats[T comparable]() Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			var last T
			has := false
			return Subscribe(src, func(v T) {
				if has && v == last {
					return
				}
				last, has = v, true
				e.Next(v)
			}, e.End).Cancel
		})
	}
}

// When forwards values only while the latest boolean from gate is true.
// Values arriving while the gate is closed are dropped, not buffered.
// The gate starts closed. A gate that completes keeps its last state.
func When[T any](gate Source[bool]) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			open := false
			hg := Subscribe(gate, func(b bool) { open = b }, func(err error) {
				if err != nil && !errors.Is(err, ErrCanceled) {
					e.End(err)
				}
			})
			if e.Closed() {
				return hg.Cancel
			}
			hs := Subscribe(src, func(v T) {
				if open {
					e.Next(v)
				}
			}, e.End)
			return func() {
				hs.Cancel()
				hg.Cancel()
			}
		})
	}
}

// Sample emits the latest value of the source each time trigger emits.
// Nothing is emitted until the source has produced a value. The output ends
// when the trigger ends or when either side fails.
func Sample[T, U any](trigger Source[U]) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		return Create(func(e *Emitter[T]) func() {
			var latest T
			has := false
			hv := Subscribe(src, func(v T) {
				latest, has = v, true
			}, func(err error) {
				if err != nil && !errors.Is(err, ErrCanceled) {
					e.End(err)
				}
			})
			if e.Closed() {
				return hv.Cancel
			}
			ht := Subscribe(trigger, func(U) {
				if has {
					e.Next(latest)
				}
			}, e.End)
			return func() {
				ht.Cancel()
				hv.Cancel()
			}
		})
	}
}

// Flatten subscribes to each inner source as it arrives, canceling the previous one.
// Completes once the outer source and the current inner source have completed.
func Flatten[T any](src Source[Source[T]]) Source[T] {
	return Create(func(e *Emitter[T]) func() {
		var inner *Handle
		gen := 0
		innerActive := false
		outerDone := false

		outer := Subscribe(src, func(s Source[T]) {
			inner.Cancel()
			gen++
			mine := gen
			innerActive = true
			inner = Subscribe(s, e.Next, func(err error) {
				if mine != gen || errors.Is(err, ErrCanceled) {
					return
				}
				if err != nil {
					e.End(err)
					return
				}
				innerActive = false
				if outerDone {
					e.End(nil)
				}
			})
		}, func(err error) {
			if err != nil {
				e.End(err)
				return
			}
			outerDone = true
			if !innerActive {
				e.End(nil)
			}
		})
		return func() {
			outer.Cancel()
			inner.Cancel()
		}
	})
}
