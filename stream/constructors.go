package stream

// Of emits the given values synchronously then completes
func Of[T any](values ...T) Source[T] {
	return FromSlice(values)
}

// FromSlice emits each element in order then completes
func FromSlice[T any](values []T) Source[T] {
	return Create(func(e *Emitter[T]) func() {
		for _, v := range values {
			if e.Closed() {
				return nil
			}
			e.Next(v)
		}
		e.End(nil)
		return nil
	})
}

// Empty completes immediately
func Empty[T any]() Source[T] {
	return Create(func(e *Emitter[T]) func() {
		e.End(nil)
		return nil
	})
}

// Never starts and emits nothing until canceled
func Never[T any]() Source[T] {
	return Create(func(e *Emitter[T]) func() { return nil })
}

// Fail ends immediately with err
func Fail[T any](err error) Source[T] {
	return Create(func(e *Emitter[T]) func() {
		e.End(err)
		return nil
	})
}
