// Package render paints a live node tree into a cell buffer and writes it to
// the terminal, one full pass per batch of changes.
package render

import (
	"log/slog"
	"time"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/terminal"
	"github.com/lixenwraith/termflow/tree"
)

// Observer receives per-pass statistics
type Observer interface {
	ObservePaint(elapsed time.Duration, nodes, subscriptions int)
}

// Renderer keeps the terminal in sync with a tree context. It is idle until
// Invalidate marks it dirty, which schedules exactly one pass however many
// changes arrive before the pass runs.
type Renderer struct {
	ctx       *tree.Context
	term      terminal.Terminal
	schedule  func(func())
	microtask func(func())
	buf       *Buffer

	logger   *slog.Logger
	observer Observer
	onError  func(error)

	dirty  bool
	passes int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithLogger sets the logger; the renderer adds a component attribute
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l.With("component", "render")
		}
	}
}

// WithObserver reports pass statistics to o
func WithObserver(o Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

// WithErrorHandler receives errors from layout and terminal writes
func WithErrorHandler(fn func(error)) Option {
	return func(r *Renderer) { r.onError = fn }
}

// WithDefer runs key commits through fn, typically the loop's microtask queue,
// so Select listeners observe a finished pass
func WithDefer(fn func(func())) Option {
	return func(r *Renderer) { r.microtask = fn }
}

// New creates a renderer for ctx writing to term. schedule queues a task on
// the runtime loop; a nil schedule makes Invalidate render synchronously.
func New(ctx *tree.Context, term terminal.Terminal, schedule func(func()), opts ...Option) *Renderer {
	r := &Renderer{
		ctx:      ctx,
		term:     term,
		schedule: schedule,
		buf:      NewBuffer(0, 0),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate marks the screen dirty and schedules a pass if none is pending
func (r *Renderer) Invalidate() {
	if r.dirty {
		return
	}
	r.dirty = true
	if r.schedule == nil {
		r.pass()
		return
	}
	r.schedule(r.pass)
}

// Dirty reports whether a pass is scheduled
func (r *Renderer) Dirty() bool {
	return r.dirty
}

// Passes returns the number of completed passes
func (r *Renderer) Passes() int {
	return r.passes
}

// Buffer returns the buffer of the last pass
func (r *Renderer) Buffer() *Buffer {
	return r.buf
}

// Render runs a pass immediately, returning layout or terminal failures
func (r *Renderer) Render() error {
	r.dirty = false
	start := time.Now()

	size := r.term.Size()
	if err := r.ctx.Calculate(size.Columns, size.Rows); err != nil {
		return errs.Wrap(err, "render", "Render", "calculate layout")
	}

	r.buf.Resize(size.Columns, size.Rows)
	painted := Paint(r.buf, r.ctx.Root())

	if err := r.term.Flush(r.buf.Cells(), size.Columns, size.Rows); err != nil {
		return errs.Wrap(err, "render", "Render", "flush frame")
	}

	// Keys registered by this pass become visible now that their nodes are laid out
	if r.microtask != nil {
		r.microtask(r.ctx.Commit)
	} else {
		r.ctx.Commit()
	}
	r.passes++

	elapsed := time.Since(start)
	nodes, subs := r.ctx.Stats()
	if r.observer != nil {
		r.observer.ObservePaint(elapsed, nodes, subs)
	}
	r.logger.Debug("paint pass",
		"pass", r.passes,
		"painted", painted,
		"nodes", nodes,
		"subscriptions", subs,
		"elapsed", elapsed)
	return nil
}

func (r *Renderer) pass() {
	if !r.dirty {
		return
	}
	if err := r.Render(); err != nil {
		r.logger.Error("paint pass failed", "error", err, "class", errs.Classify(err).String())
		if r.onError != nil {
			r.onError(err)
		}
	}
}
