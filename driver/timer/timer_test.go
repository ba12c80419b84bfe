package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/termflow/driver"
	"github.com/lixenwraith/termflow/driver/timer"
	"github.com/lixenwraith/termflow/stream"
)

func startTimer(t *testing.T) (*driver.Runtime, *timer.Source) {
	t.Helper()
	var src *timer.Source
	rt := driver.NewRuntime()
	require.NoError(t, rt.Start(func(s driver.Sources) driver.Sinks {
		src = driver.MustQuery[*timer.Source](s, "time")
		return nil
	}, driver.Drivers{"time": timer.New()}))
	return rt, src
}

// drainUntil runs the loop until cond holds or the deadline passes
func drainUntil(rt *driver.Runtime, cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rt.Loop.Drain()
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func TestIntervalTicksOnLoop(t *testing.T) {
	rt, src := startTimer(t)
	defer rt.Shutdown()

	var ticks []int
	h := stream.ForEach(stream.Pipe(src.Interval(5*time.Millisecond), stream.Take[int](3)), func(n int) {
		ticks = append(ticks, n)
	})
	require.True(t, drainUntil(rt, func() bool { return len(ticks) == 3 }))
	assert.Equal(t, []int{1, 2, 3}, ticks)
	assert.True(t, h.Canceled())
}

func TestAfterEmitsOnceAndEnds(t *testing.T) {
	rt, src := startTimer(t)
	defer rt.Shutdown()

	var fired []time.Time
	ended := false
	begin := time.Now()
	stream.Subscribe(src.After(10*time.Millisecond), func(at time.Time) { fired = append(fired, at) }, func(err error) {
		assert.NoError(t, err)
		ended = true
	})
	require.True(t, drainUntil(rt, func() bool { return ended }))
	require.Len(t, fired, 1)
	assert.GreaterOrEqual(t, fired[0].Sub(begin), 10*time.Millisecond)
}

func TestCanceledAfterNeverFires(t *testing.T) {
	rt, src := startTimer(t)
	defer rt.Shutdown()

	fired := false
	h := stream.ForEach(src.After(5*time.Millisecond), func(time.Time) { fired = true })
	h.Cancel()
	time.Sleep(20 * time.Millisecond)
	rt.Loop.Drain()
	assert.False(t, fired)
}

func TestStopHaltsTimers(t *testing.T) {
	rt, src := startTimer(t)
	defer rt.Shutdown()

	ticks := 0
	stream.ForEach(src.Interval(2*time.Millisecond), func(int) { ticks++ })
	require.NoError(t, rt.Hub.StopAll())
	time.Sleep(20 * time.Millisecond)
	rt.Loop.Drain()
	assert.Zero(t, ticks)

	ended := false
	stream.Subscribe(src.After(time.Millisecond), nil, func(error) { ended = true })
	assert.True(t, ended, "subscriptions after stop end immediately")
}
