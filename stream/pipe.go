package stream

// Pipe applies t to src
func Pipe[A, B any](src Source[A], t Transformer[A, B]) Source[B] {
	return t(src)
}

// Pipe2 applies two transformers left to right
func Pipe2[A, B, C any](src Source[A], t1 Transformer[A, B], t2 Transformer[B, C]) Source[C] {
	return t2(t1(src))
}

// Pipe3 applies three transformers left to right
func Pipe3[A, B, C, D any](src Source[A], t1 Transformer[A, B], t2 Transformer[B, C], t3 Transformer[C, D]) Source[D] {
	return t3(t2(t1(src)))
}

// Pipe4 applies four transformers left to right
func Pipe4[A, B, C, D, E any](src Source[A], t1 Transformer[A, B], t2 Transformer[B, C], t3 Transformer[C, D], t4 Transformer[D, E]) Source[E] {
	return t4(t3(t2(t1(src))))
}

// Chain composes same-typed transformers left to right
func Chain[T any](ts ...Transformer[T, T]) Transformer[T, T] {
	return func(src Source[T]) Source[T] {
		for _, t := range ts {
			src = t(src)
		}
		return src
	}
}
