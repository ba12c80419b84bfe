package driver

import (
	"context"
	"sync"
)

// Loop runs every task of a runtime on one goroutine.
// Thread-Safety:
//   - Post, Stop, Pending: any goroutine
//   - Defer, Drain, Run: the loop goroutine only
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	micro []func()

	wake     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	err      error

	onPanic func(any)
}

// NewLoop creates an idle loop
func NewLoop() *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Post queues task to run on the loop goroutine. Tasks posted after Stop are dropped.
func (l *Loop) Post(task func()) {
	if task == nil || l.Stopped() {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Defer queues a microtask that runs once the current task returns, before the
// next posted task
func (l *Loop) Defer(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.micro = append(l.micro, task)
	l.mu.Unlock()
}

// Pending returns the number of queued tasks and microtasks
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) + len(l.micro)
}

// Drain runs queued work until the queue is empty or the loop is stopped,
// including work queued while draining. Returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for !l.Stopped() {
		task, ok := l.next()
		if !ok {
			return n
		}
		l.run(task)
		n++
	}
	return n
}

// OnPanic installs fn to handle a panic raised by a task. Without one the
// panic propagates. Call before Run.
func (l *Loop) OnPanic(fn func(any)) {
	l.onPanic = fn
}

func (l *Loop) run(task func()) {
	if l.onPanic != nil {
		defer func() {
			if p := recover(); p != nil {
				l.onPanic(p)
			}
		}()
	}
	task()
}

// next pops the first microtask, or the first task when none is queued
func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.micro) > 0 {
		task := l.micro[0]
		l.micro[0] = nil
		l.micro = l.micro[1:]
		return task, true
	}
	if len(l.tasks) > 0 {
		task := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		return task, true
	}
	return nil, false
}

// Run executes tasks until ctx is done or Stop is called, returning the stop
// error or the context's error
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()

		select {
		case <-l.stopCh:
			return l.err
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Stop ends Run with err. Only the first call has effect.
func (l *Loop) Stop(err error) {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.err = err
		l.tasks, l.micro = nil, nil
		l.mu.Unlock()
		close(l.stopCh)
	})
}

// Stopped reports whether Stop has been called
func (l *Loop) Stopped() bool {
	select {
	case <-l.stopCh:
		return true
	default:
		return false
	}
}

// Done is closed by Stop
func (l *Loop) Done() <-chan struct{} {
	return l.stopCh
}
