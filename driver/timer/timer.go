// Package timer is a time driver. Ticks are produced by Go timers and posted
// onto the runtime loop, so subscribers run on the loop like every other task.
package timer

import (
	"sync"
	"time"

	"github.com/lixenwraith/termflow/driver"
	"github.com/lixenwraith/termflow/service"
	"github.com/lixenwraith/termflow/stream"
)

// Source is the query API of the timer driver
type Source struct {
	loop *driver.Loop

	mu      sync.Mutex
	stopped bool
	active  map[*time.Timer]struct{}
	tickers map[*time.Ticker]chan struct{}
}

// New returns the timer driver. It takes no actions.
func New() driver.Driver {
	return func(_ stream.Source[any], rt *driver.Runtime) (any, error) {
		s := &Source{
			loop:    rt.Loop,
			active:  make(map[*time.Timer]struct{}),
			tickers: make(map[*time.Ticker]chan struct{}),
		}
		err := rt.Hub.Register(&service.Func{ID: "timer", OnStop: s.stop})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Interval emits the tick count, starting at 1, every d
func (s *Source) Interval(d time.Duration) stream.Source[int] {
	return stream.Create(func(e *stream.Emitter[int]) func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			e.End(nil)
			return nil
		}
		t := time.NewTicker(d)
		done := make(chan struct{})
		s.tickers[t] = done
		s.mu.Unlock()

		go func() {
			n := 0
			for {
				select {
				case <-t.C:
					n++
					count := n
					s.loop.Post(func() { e.Next(count) })
				case <-done:
					return
				}
			}
		}()

		return func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if ch, ok := s.tickers[t]; ok {
				t.Stop()
				close(ch)
				delete(s.tickers, t)
			}
		}
	})
}

// After emits the time once, after d, then ends
func (s *Source) After(d time.Duration) stream.Source[time.Time] {
	return stream.Create(func(e *stream.Emitter[time.Time]) func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped {
			e.End(nil)
			return nil
		}

		var t *time.Timer
		t = time.AfterFunc(d, func() {
			now := time.Now()
			s.mu.Lock()
			delete(s.active, t)
			s.mu.Unlock()
			s.loop.Post(func() {
				e.Next(now)
				e.End(nil)
			})
		})
		s.active[t] = struct{}{}

		return func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			t.Stop()
			delete(s.active, t)
		}
	})
}

// stop halts every running timer. Subscriptions stay open and never tick again.
func (s *Source) stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t, done := range s.tickers {
		t.Stop()
		close(done)
	}
	for t := range s.active {
		t.Stop()
	}
	clear(s.tickers)
	clear(s.active)
	return nil
}
