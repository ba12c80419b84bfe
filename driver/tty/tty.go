// Package tty is the terminal driver: it mounts the node descriptions the
// application emits, repaints them on every change and exposes key presses,
// resizes and laid-out nodes as streams.
package tty

import (
	"os"

	"github.com/lixenwraith/termflow/driver"
	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/render"
	"github.com/lixenwraith/termflow/service"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/terminal"
	"github.com/lixenwraith/termflow/tree"
	"github.com/lixenwraith/termflow/vnode"
)

type config struct {
	backend terminal.Backend
	hooks   bool
}

// Option configures the driver
type Option func(*config)

// WithBackend drives b instead of the process tty and turns signal hooks off;
// a later WithSignalHooks(true) turns them back on.
func WithBackend(b terminal.Backend) Option {
	return func(c *config) {
		c.backend = b
		c.hooks = false
	}
}

// WithSignalHooks sets whether SIGINT, SIGTERM and SIGHUP restore the
// terminal and stop the runtime
func WithSignalHooks(on bool) Option {
	return func(c *config) { c.hooks = on }
}

// Source is the query API of the tty driver
type Source struct {
	rt       *driver.Runtime
	svc      *terminal.Service
	renderer *render.Renderer

	keys    *stream.Broadcast[terminal.KeyEvent]
	resizes *stream.Broadcast[terminal.Size]

	actions     *stream.Handle
	removeHooks func()
}

// New returns the tty driver. Its actions are vnode descriptions; each one
// replaces the mounted tree.
func New(opts ...Option) driver.Driver {
	cfg := config{hooks: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(actions stream.Source[any], rt *driver.Runtime) (any, error) {
		s := &Source{
			rt:      rt,
			keys:    stream.NewBroadcast[terminal.KeyEvent](),
			resizes: stream.NewBroadcast[terminal.Size](),
		}
		s.svc = terminal.NewService(cfg.backend, func(ev terminal.Event) {
			rt.Loop.Post(func() { s.handle(ev) })
		})
		term := s.svc.Terminal()

		ropts := []render.Option{
			render.WithLogger(rt.Logger),
			render.WithErrorHandler(rt.Report),
			render.WithDefer(rt.Loop.Defer),
		}
		if rt.Metrics != nil {
			ropts = append(ropts, render.WithObserver(rt.Metrics))
		}
		s.renderer = render.New(rt.Tree, term, rt.Loop.Post, ropts...)
		rt.Tree.SetScheduler(s.renderer.Invalidate)
		rt.Loop.OnPanic(func(p any) { terminal.Crash(term, "RUNTIME LOOP", p) })

		if err := rt.Hub.Register(s.svc); err != nil {
			return nil, err
		}
		err := rt.Hub.Register(&service.Func{
			ID: "tty",
			OnStart: func() error {
				if cfg.hooks {
					s.removeHooks = terminal.InstallHooks(term, func(os.Signal) { rt.Loop.Stop(nil) })
				}
				return nil
			},
			OnStop: func() error {
				s.actions.Cancel()
				if s.removeHooks != nil {
					s.removeHooks()
				}
				s.keys.End(nil)
				s.resizes.End(nil)
				return nil
			},
		})
		if err != nil {
			return nil, err
		}

		s.actions = stream.ForEach(actions, s.mount)
		return s, nil
	}
}

func (s *Source) mount(v any) {
	if _, err := s.rt.Tree.Mount(vnode.From(v)); err != nil {
		s.rt.Report(err)
	}
}

// handle runs on the loop for every terminal event
func (s *Source) handle(ev terminal.Event) {
	switch ev.Type {
	case terminal.EventKey:
		s.rt.Metrics.KeyEvent()
		s.keys.Next(ev.Key)
	case terminal.EventResize:
		s.resizes.Next(ev.Size)
		s.renderer.Invalidate()
	case terminal.EventClosed:
		s.rt.Report(errs.WrapFatal(errs.ErrTerminalClosed, "tty", "handle", "read input"))
	case terminal.EventError:
		s.rt.Report(errs.WrapFatal(ev.Err, "tty", "handle", "read input"))
	}
}

// Select streams the laid-out node registered under key, starting with the
// current one if it is already committed. It emits nil when the node is torn down.
func (s *Source) Select(key string) stream.Source[*tree.Node] {
	return s.rt.Tree.Select(key)
}

// Keypress streams decoded key events
func (s *Source) Keypress() stream.Source[terminal.KeyEvent] {
	return s.keys.Source()
}

// Resize streams terminal sizes. With immediate set, the current size is
// emitted on subscribe.
func (s *Source) Resize(immediate bool) stream.Source[terminal.Size] {
	return stream.Create(func(e *stream.Emitter[terminal.Size]) func() {
		if immediate {
			e.Next(s.svc.Terminal().Size())
		}
		h := stream.Subscribe(s.resizes.Source(), e.Next, e.End)
		return h.Cancel
	})
}

// Renderer returns the renderer painting the mounted tree
func (s *Source) Renderer() *render.Renderer {
	return s.renderer
}

// Screen returns the buffer of the last paint pass
func (s *Source) Screen() *render.Buffer {
	return s.renderer.Buffer()
}
