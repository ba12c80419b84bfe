package stream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func sum(acc, v int) int { return acc + v }

// TestOfDeliversInOrder verifies the basic Start/Data/End lifecycle
func TestOfDeliversInOrder(t *testing.T) {
	r := record(t, Of(1, 2, 3))

	assert.Equal(t, 1, r.starts)
	assert.Equal(t, []int{1, 2, 3}, r.values)
	assert.Equal(t, 1, r.ends)
	assert.NoError(t, r.err)
}

// TestCancelIsIdempotent verifies a second Cancel neither re-ends nor panics
func TestCancelIsIdempotent(t *testing.T) {
	b := NewBroadcast[int]()
	r := record(t, b.Source())
	require.NotNil(t, r.handle)

	b.Next(1)
	r.handle.Cancel()
	r.handle.Cancel()
	b.Next(2)

	assert.Equal(t, []int{1}, r.values)
	assert.Equal(t, 1, r.ends)
	assert.ErrorIs(t, r.err, ErrCanceled)
	assert.Equal(t, 0, b.Listeners())
	assert.True(t, r.handle.Canceled())
}

// TestCancelInsideStart verifies a subscriber may cancel while handling Start
func TestCancelInsideStart(t *testing.T) {
	produced := false
	src := Create(func(e *Emitter[int]) func() {
		produced = true
		e.Next(1)
		return nil
	})

	var got []Kind
	src(func(s Signal[int]) {
		got = append(got, s.Kind)
		if s.Kind == Start {
			s.Handle.Cancel()
		}
	})

	assert.False(t, produced)
	assert.Equal(t, []Kind{Start, End}, got)
}

// TestNoReentrantDelivery verifies emissions raised inside a handler are queued
func TestNoReentrantDelivery(t *testing.T) {
	var e *Emitter[int]
	src := Create(func(em *Emitter[int]) func() {
		e = em
		return nil
	})

	depth := 0
	var order []int
	src(func(s Signal[int]) {
		if s.Kind != Data {
			return
		}
		depth++
		defer func() { depth-- }()
		require.Equal(t, 1, depth, "reentrant delivery of %d", s.Value)
		order = append(order, s.Value)
		if s.Value == 1 {
			e.Next(2)
			e.Next(3)
		}
	})
	e.Next(1)

	assert.Equal(t, []int{1, 2, 3}, order)
}

// TestSubscribeBeforeAsyncStart verifies a handle canceled before Start cancels upstream on arrival
func TestSubscribeBeforeAsyncStart(t *testing.T) {
	var deferred Sink[int]
	src := Source[int](func(sink Sink[int]) { deferred = sink })

	var ended error
	h := Subscribe(src, func(int) { t.Fatal("unexpected value") }, func(err error) { ended = err })
	h.Cancel()

	upstreamCanceled := false
	deferred(Signal[int]{Kind: Start, Handle: NewHandle(func() {
		upstreamCanceled = true
		deferred(Signal[int]{Kind: End, Err: ErrCanceled})
	})})

	assert.True(t, upstreamCanceled)
	assert.ErrorIs(t, ended, ErrCanceled)
}

func TestMapFilter(t *testing.T) {
	src := Pipe2(Of(1, 2, 3, 4, 5),
		Filter(func(v int) bool { return v%2 == 1 }),
		Map(func(v int) string { return fmt.Sprintf("#%d", v) }),
	)
	r := record(t, src)

	assert.Equal(t, []string{"#1", "#3", "#5"}, r.values)
	assert.Equal(t, 1, r.ends)
}

// TestFoldEmitsPerValue verifies Fold emits the accumulator on every upstream value but not the seed
func TestFoldEmitsPerValue(t *testing.T) {
	r := record(t, Pipe(Of(1, 2, 3), Fold(sum, 0)))
	assert.Equal(t, []int{1, 3, 6}, r.values)

	seeded := record(t, Pipe2(Of(1, 2), Fold(sum, 0), StartWith(0)))
	assert.Equal(t, []int{0, 1, 3}, seeded.values)
}

// TestFoldStatePerSubscription verifies each subscription accumulates independently
func TestFoldStatePerSubscription(t *testing.T) {
	b := NewBroadcast[int]()
	counter := Pipe(b.Source(), Fold(sum, 0))

	r1 := record(t, counter)
	b.Next(5)
	r2 := record(t, counter)
	b.Next(1)

	assert.Equal(t, []int{5, 6}, r1.values)
	assert.Equal(t, []int{1}, r2.values)
}

func TestToAndTake(t *testing.T) {
	r := record(t, Pipe2(Of("a", "b", "c"), To[string]("x"), Take[string](2)))
	assert.Equal(t, []string{"x", "x"}, r.values)
	assert.Equal(t, 1, r.ends)
	assert.NoError(t, r.err)
}

// TestTakeCancelsUpstream verifies completing early releases the upstream subscription
func TestTakeCancelsUpstream(t *testing.T) {
	b := NewBroadcast[int]()
	c := newCounting(b.Source())

	r := record(t, Pipe(c.Source(), Take[int](1)))
	b.Next(7)
	b.Next(8)

	assert.Equal(t, []int{7}, r.values)
	assert.Equal(t, 0, c.live)
	assert.Equal(t, 1, c.torn)
	assert.Equal(t, 0, b.Listeners())
}

func TestSkipAndDropRepeats(t *testing.T) {
	r := record(t, Pipe2(Of(1, 1, 2, 2, 2, 3, 1), Skip[int](1), DropRepeats[int]()))
	assert.Equal(t, []int{1, 2, 3, 1}, r.values)
}

// TestMergeEndsAfterAll verifies Merge completes only once every input completed
func TestMergeEndsAfterAll(t *testing.T) {
	a, b := NewBroadcast[int](), NewBroadcast[int]()
	r := record(t, Merge(a.Source(), b.Source()))

	a.Next(1)
	b.Next(2)
	a.Next(3)
	a.End(nil)
	assert.Equal(t, 0, r.ends)

	b.Next(4)
	b.End(nil)

	assert.Equal(t, []int{1, 2, 3, 4}, r.values)
	assert.Equal(t, 1, r.ends)
	assert.NoError(t, r.err)
}

func TestMergePropagatesError(t *testing.T) {
	a, b := NewBroadcast[int](), NewBroadcast[int]()
	r := record(t, Merge(a.Source(), b.Source()))

	a.End(errBoom)
	b.Next(1)

	assert.Empty(t, r.values)
	assert.ErrorIs(t, r.err, errBoom)
	assert.Equal(t, 0, b.Listeners())
}

// TestCombineWaitsForAll verifies Combine stays silent until each input emitted,
// then emits exactly once per upstream value with the latest of all inputs
func TestCombineWaitsForAll(t *testing.T) {
	a, b := NewBroadcast[int](), NewBroadcast[int]()
	r := record(t, Combine(a.Source(), b.Source()))

	a.Next(1)
	a.Next(2)
	assert.Empty(t, r.values)

	b.Next(10)
	a.Next(3)
	b.Next(11)

	assert.Equal(t, [][]int{{2, 10}, {3, 10}, {3, 11}}, r.values)
}

func TestCombineEnds(t *testing.T) {
	t.Run("input ends silent", func(t *testing.T) {
		a, b := NewBroadcast[int](), NewBroadcast[int]()
		r := record(t, Combine(a.Source(), b.Source()))
		a.Next(1)
		b.End(nil)
		assert.Equal(t, 1, r.ends)
		assert.Empty(t, r.values)
	})

	t.Run("all inputs end", func(t *testing.T) {
		a, b := NewBroadcast[int](), NewBroadcast[int]()
		r := record(t, Combine(a.Source(), b.Source()))
		a.Next(1)
		b.Next(2)
		a.End(nil)
		b.Next(3)
		assert.Equal(t, 0, r.ends)
		b.End(nil)
		assert.Equal(t, 1, r.ends)
		assert.Equal(t, [][]int{{1, 2}, {1, 3}}, r.values)
	})

	t.Run("error", func(t *testing.T) {
		a, b := NewBroadcast[int](), NewBroadcast[int]()
		r := record(t, Combine(a.Source(), b.Source()))
		b.End(errBoom)
		assert.ErrorIs(t, r.err, errBoom)
		assert.Equal(t, 0, a.Listeners())
	})
}

func TestCombine2(t *testing.T) {
	a, b := NewBroadcast[int](), NewBroadcast[string]()
	r := record(t, Combine2(a.Source(), b.Source()))

	b.Next("x")
	a.Next(1)
	b.Next("y")

	assert.Equal(t, []Pair[int, string]{{1, "x"}, {1, "y"}}, r.values)
}

func TestCombine3(t *testing.T) {
	r := record(t, Combine3(Of(1), Of("a"), Of(true)))
	assert.Equal(t, []Triple[int, string, bool]{{1, "a", true}}, r.values)
	assert.Equal(t, 1, r.ends)
}

// TestSampleOnTrigger verifies values are re-emitted only when the trigger fires
func TestSampleOnTrigger(t *testing.T) {
	values, trigger := NewBroadcast[int](), NewBroadcast[struct{}]()
	r := record(t, Pipe(values.Source(), Sample[int](trigger.Source())))

	trigger.Next(struct{}{})
	values.Next(1)
	values.Next(2)
	assert.Empty(t, r.values)

	trigger.Next(struct{}{})
	trigger.Next(struct{}{})
	values.Next(3)
	trigger.Next(struct{}{})

	assert.Equal(t, []int{2, 2, 3}, r.values)

	trigger.End(nil)
	assert.Equal(t, 1, r.ends)
}

// TestConcatPairs verifies pairing waits for both sides and updates on either
func TestConcatPairs(t *testing.T) {
	a, b := NewBroadcast[int](), NewBroadcast[string]()
	r := record(t, Concat(a.Source(), b.Source()))

	a.Next(1)
	assert.Empty(t, r.values)
	b.Next("x")
	a.Next(2)
	b.Next("y")

	assert.Equal(t, []Pair[int, string]{{1, "x"}, {2, "x"}, {2, "y"}}, r.values)

	a.End(nil)
	assert.Zero(t, r.ends, "b still live")
	b.Next("z")
	assert.Equal(t, Pair[int, string]{2, "z"}, r.values[len(r.values)-1])

	b.End(nil)
	assert.Equal(t, 1, r.ends)
	assert.NoError(t, r.err)
	assert.Equal(t, 0, b.Listeners())
}

// TestConcatFiniteSide verifies a completed side keeps pairing with a live one
func TestConcatFiniteSide(t *testing.T) {
	bus := NewBroadcast[int]()
	r := record(t, Concat(Of("label"), bus.Source()))
	assert.Zero(t, r.ends)

	bus.Next(1)
	bus.Next(2)
	assert.Equal(t, []Pair[string, int]{{"label", 1}, {"label", 2}}, r.values)

	bus.End(nil)
	assert.Equal(t, 1, r.ends)
}

func TestConcatEnds(t *testing.T) {
	t.Run("side without value", func(t *testing.T) {
		bus := NewBroadcast[int]()
		r := record(t, Concat(Empty[string](), bus.Source()))
		assert.Equal(t, 1, r.ends)
		assert.Equal(t, 0, bus.Listeners())
	})
	t.Run("failure", func(t *testing.T) {
		bus := NewBroadcast[int]()
		r := record(t, Concat(Of("label"), bus.Source()))
		bus.End(errBoom)
		assert.Equal(t, 1, r.ends)
		assert.ErrorIs(t, r.err, errBoom)
	})
}

// TestWhenGatesWithoutBuffering verifies events are dropped while closed and
// forwarded immediately once the gate reopens
func TestWhenGatesWithoutBuffering(t *testing.T) {
	gate, keys := NewBroadcast[bool](), NewBroadcast[string]()
	r := record(t, Pipe(keys.Source(), When[string](gate.Source())))

	keys.Next("a")
	gate.Next(true)
	keys.Next("b")
	gate.Next(false)
	keys.Next("c")
	keys.Next("d")
	gate.Next(true)
	keys.Next("e")

	assert.Equal(t, []string{"b", "e"}, r.values)
}

func TestWhenSeededGate(t *testing.T) {
	gate := NewBroadcast[bool]()
	r := record(t, Pipe(Of(1, 2), When[int](Pipe(gate.Source(), StartWith(true)))))
	assert.Equal(t, []int{1, 2}, r.values)
	assert.Equal(t, 0, gate.Listeners())
}

// TestShareFansOutInSubscriptionOrder verifies every subscriber sees the same values in order
func TestShareFansOutInSubscriptionOrder(t *testing.T) {
	b := NewBroadcast[int]()
	c := newCounting(b.Source())
	shared := Share(c.Source())

	var log []string
	h1 := Subscribe(shared, func(v int) { log = append(log, fmt.Sprintf("a:%d", v)) }, nil)
	Subscribe(shared, func(v int) { log = append(log, fmt.Sprintf("b:%d", v)) }, nil)

	b.Next(1)
	b.Next(2)
	assert.Equal(t, []string{"a:1", "b:1", "a:2", "b:2"}, log)
	assert.Equal(t, 1, c.subscribe)

	h1.Cancel()
	b.Next(3)
	assert.Equal(t, []string{"a:1", "b:1", "a:2", "b:2", "b:3"}, log)
	assert.Equal(t, 1, c.live)
}

// TestShareDisconnectsWhenLastLeaves verifies reference counting of the upstream
func TestShareDisconnectsWhenLastLeaves(t *testing.T) {
	b := NewBroadcast[int]()
	c := newCounting(b.Source())
	shared := Share(c.Source())

	r1 := record(t, shared)
	r2 := record(t, shared)
	r1.handle.Cancel()
	r2.handle.Cancel()

	assert.Equal(t, 0, c.live)
	assert.Equal(t, 1, c.torn)

	r3 := record(t, shared)
	b.Next(9)
	assert.Equal(t, []int{9}, r3.values)
	assert.Equal(t, 2, c.subscribe)
}

func TestShareEndsAllSubscribers(t *testing.T) {
	b := NewBroadcast[int]()
	shared := Share(b.Source())
	r1 := record(t, shared)
	r2 := record(t, shared)

	b.End(errBoom)

	assert.ErrorIs(t, r1.err, errBoom)
	assert.ErrorIs(t, r2.err, errBoom)
	assert.Equal(t, 1, r1.ends)
	assert.Equal(t, 1, r2.ends)
}

// TestBroadcastReentrantOrder verifies a value pushed from a listener reaches every
// listener after the value being dispatched
func TestBroadcastReentrantOrder(t *testing.T) {
	b := NewBroadcast[int]()
	var log []string
	Subscribe(b.Source(), func(v int) {
		log = append(log, fmt.Sprintf("a:%d", v))
		if v == 1 {
			b.Next(2)
		}
	}, nil)
	Subscribe(b.Source(), func(v int) { log = append(log, fmt.Sprintf("b:%d", v)) }, nil)

	b.Next(1)

	assert.Equal(t, []string{"a:1", "b:1", "a:2", "b:2"}, log)
}

func TestBroadcastLateSubscriberAfterEnd(t *testing.T) {
	b := NewBroadcast[int]()
	b.End(nil)
	r := record(t, b.Source())
	assert.Equal(t, 1, r.starts)
	assert.Equal(t, 1, r.ends)
}

// TestRememberReplaysLatest verifies late subscribers receive the latest value first
func TestRememberReplaysLatest(t *testing.T) {
	b := NewBroadcast[string]()
	mem := Remember(b.Source())

	r1 := record(t, mem)
	b.Next("a")
	b.Next("b")
	r2 := record(t, mem)
	b.Next("c")

	assert.Equal(t, []string{"a", "b", "c"}, r1.values)
	assert.Equal(t, []string{"b", "c"}, r2.values)

	rb := NewRememberBroadcast[int]()
	rb.Next(4)
	late := record(t, rb.Source())
	assert.Equal(t, []int{4}, late.values)
	v, ok := rb.Latest()
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

// TestFlattenSwitches verifies only the latest inner source is forwarded
func TestFlattenSwitches(t *testing.T) {
	outer := NewBroadcast[Source[int]]()
	in1, in2 := NewBroadcast[int](), NewBroadcast[int]()
	r := record(t, Flatten(outer.Source()))

	outer.Next(in1.Source())
	in1.Next(1)
	outer.Next(in2.Source())
	in1.Next(2)
	in2.Next(3)

	assert.Equal(t, []int{1, 3}, r.values)
	assert.Equal(t, 0, in1.Listeners())

	outer.End(nil)
	assert.Equal(t, 0, r.ends)
	in2.End(nil)
	assert.Equal(t, 1, r.ends)
}

// TestAnyErasesType verifies typed sources are usable as Dynamic
func TestAnyErasesType(t *testing.T) {
	var d Dynamic = Of(1, 2)
	r := record(t, d.Any())
	assert.Equal(t, []any{1, 2}, r.values)

	erased := Of[any]("x")
	assert.NotNil(t, erased.Any())
}

func TestEmptyNeverFail(t *testing.T) {
	e := record(t, Empty[int]())
	assert.Equal(t, 1, e.ends)

	n := record(t, Never[int]())
	assert.Equal(t, 0, n.ends)
	n.handle.Cancel()
	assert.ErrorIs(t, n.err, ErrCanceled)

	f := record(t, Fail[int](errBoom))
	assert.ErrorIs(t, f.err, errBoom)
}

func TestChain(t *testing.T) {
	double := Map(func(v int) int { return v * 2 })
	inc := Map(func(v int) int { return v + 1 })
	r := record(t, Pipe(Of(1, 2), Chain(double, inc)))
	assert.Equal(t, []int{3, 5}, r.values)
}
