package driver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	l := NewLoop()
	var got []int
	for i := range 3 {
		l.Post(func() { got = append(got, i) })
	}
	assert.Equal(t, 3, l.Pending())
	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Zero(t, l.Pending())
}

func TestDeferRunsBeforeNextTask(t *testing.T) {
	l := NewLoop()
	var got []string
	l.Post(func() {
		got = append(got, "a")
		l.Defer(func() {
			got = append(got, "a.micro")
			l.Defer(func() { got = append(got, "a.micro.micro") })
		})
		l.Post(func() { got = append(got, "c") })
	})
	l.Post(func() { got = append(got, "b") })

	assert.Equal(t, 5, l.Drain())
	assert.Equal(t, []string{"a", "a.micro", "a.micro.micro", "b", "c"}, got)
}

func TestStopEndsRunWithError(t *testing.T) {
	l := NewLoop()
	boom := errors.New("boom")
	ran := false
	l.Post(func() { l.Stop(boom) })
	l.Post(func() { ran = true })

	err := l.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, ran, "tasks after Stop are dropped")
	assert.True(t, l.Stopped())

	l.Stop(errors.New("second"))
	l.Post(func() { ran = true })
	assert.Zero(t, l.Pending())
}

func TestRunReturnsOnContextDone(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	l.Post(cancel)
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestPostFromOtherGoroutines(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const producers, each = 4, 50
	count := 0
	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				l.Post(func() {
					count++
					if count == producers*each {
						l.Stop(nil)
					}
				})
			}
		}()
	}

	require.NoError(t, l.Run(ctx))
	wg.Wait()
	assert.Equal(t, producers*each, count)
}

func TestOnPanicHandlesTaskPanic(t *testing.T) {
	l := NewLoop()
	var caught any
	l.OnPanic(func(p any) { caught = p })
	after := false
	l.Post(func() { panic("bad task") })
	l.Post(func() { after = true })

	l.Drain()
	assert.Equal(t, "bad task", caught)
	assert.True(t, after)
}
