// Package driver wires an application to the drivers that own its effects.
//
// An application is a function from driver query APIs (Sources) to action
// streams (Sinks). Run instantiates every driver with an action bus, calls the
// application once, and only then connects each sink to its bus, so no driver
// observes a half-built graph. All stream, tree and render work runs on the
// runtime's Loop goroutine; other goroutines only Post.
package driver

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/metric"
	"github.com/lixenwraith/termflow/service"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/tree"
)

// Driver owns one external effect. It receives the stream of actions the
// application sends on its channel and returns the query API exposed to the
// application.
type Driver func(actions stream.Source[any], rt *Runtime) (any, error)

// Drivers maps channel names to drivers
type Drivers map[string]Driver

// Sources maps channel names to driver query APIs
type Sources map[string]any

// Sinks maps channel names to action streams
type Sinks map[string]stream.Dynamic

// App builds the application's sinks from the driver sources
type App func(Sources) Sinks

// Query returns the API of channel name as T
func Query[T any](s Sources, name string) (T, bool) {
	api, ok := s[name].(T)
	return api, ok
}

// MustQuery returns the API of channel name as T
// Panics if the channel is missing or has another type
func MustQuery[T any](s Sources, name string) T {
	v, ok := s[name]
	if !ok {
		panic(fmt.Sprintf("driver not found: %s", name))
	}
	api, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("driver %s: type mismatch, got %T", name, v))
	}
	return api
}

// Runtime is the state shared by the drivers of one Run. Several runtimes may
// coexist in a process.
type Runtime struct {
	ID      string
	Loop    *Loop
	Tree    *tree.Context
	Hub     *service.Hub
	Logger  *slog.Logger
	Metrics *metric.Metrics

	engine  layout.Engine
	onError func(error)

	sinks []*stream.Handle
}

// Option configures a Runtime
type Option func(*Runtime)

// WithLogger sets the base logger; the runtime adds its id
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.Logger = l
		}
	}
}

// WithMetrics records runtime metrics into m
func WithMetrics(m *metric.Metrics) Option {
	return func(rt *Runtime) { rt.Metrics = m }
}

// WithLayout replaces the flex layout engine
func WithLayout(e layout.Engine) Option {
	return func(rt *Runtime) { rt.engine = e }
}

// WithErrorHandler receives every error reported by drivers and live updates
func WithErrorHandler(fn func(error)) Option {
	return func(rt *Runtime) { rt.onError = fn }
}

// NewRuntime creates a runtime with an empty tree and no drivers
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		ID:     uuid.NewString(),
		Loop:   NewLoop(),
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.engine == nil {
		rt.engine = layout.NewFlexEngine()
	}
	rt.Logger = rt.Logger.With("runtime_id", rt.ID)
	rt.Hub = service.NewHub(rt.Logger)
	rt.Tree = tree.NewContext(rt.engine,
		tree.WithLogger(rt.Logger),
		tree.WithErrorHandler(rt.Report),
	)
	return rt
}

// Report logs and counts err and forwards it to the error handler.
// A fatal error stops the loop.
func (rt *Runtime) Report(err error) {
	if err == nil || stderrors.Is(err, stream.ErrCanceled) {
		return
	}
	class := errs.Classify(err)
	rt.Logger.Error("runtime error", "error", err, "class", class.String())
	rt.Metrics.Error(err)
	if rt.onError != nil {
		rt.onError(err)
	}
	if class == errs.ErrorFatal {
		rt.Loop.Stop(err)
	}
}

// Run executes app with drivers until ctx is done, a fatal error is reported,
// or every sink has ended. Cancellation of ctx is a normal exit.
func Run(ctx context.Context, app App, drivers Drivers, opts ...Option) error {
	rt := NewRuntime(opts...)
	return rt.Run(ctx, app, drivers)
}

// Run executes app on this runtime; see the package-level Run
func (rt *Runtime) Run(ctx context.Context, app App, drivers Drivers) (err error) {
	defer func() {
		if stopErr := rt.Shutdown(); err == nil {
			err = stopErr
		}
	}()

	if err := rt.Start(app, drivers); err != nil {
		return err
	}

	err = rt.Loop.Run(ctx)
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Start instantiates drivers, calls app and connects its sinks. It returns
// without running the loop; callers either Run the loop or Drain it.
func (rt *Runtime) Start(app App, drivers Drivers) error {
	names := slices.Sorted(maps.Keys(drivers))
	buses := make(map[string]*stream.Broadcast[any], len(names))
	sources := make(Sources, len(names))

	for _, name := range names {
		bus := stream.NewBroadcast[any]()
		api, err := drivers[name](bus.Source(), rt)
		if err != nil {
			return errs.Wrap(err, "driver", "Start", "instantiate "+name)
		}
		buses[name] = bus
		sources[name] = api
	}

	if err := rt.Hub.InitAll(); err != nil {
		return err
	}

	sinks := app(sources)

	channels := slices.Sorted(maps.Keys(sinks))
	for _, name := range channels {
		if _, ok := buses[name]; !ok {
			return errs.WrapInvalid(fmt.Errorf("%w: %q", errs.ErrUnknownChannel, name), "driver", "Start", "connect sinks")
		}
		if sinks[name] == nil {
			return errs.WrapInvalid(fmt.Errorf("%w: nil sink for %q", errs.ErrInvalidConfig, name), "driver", "Start", "connect sinks")
		}
	}

	open := len(channels)
	for _, name := range channels {
		bus := buses[name]
		h := stream.Subscribe(sinks[name].Any(), bus.Next, func(err error) {
			rt.Report(err)
			open--
			if open == 0 {
				rt.Logger.Debug("all sinks ended")
				rt.Loop.Stop(nil)
			}
		})
		rt.sinks = append(rt.sinks, h)
	}

	if err := rt.Hub.StartAll(); err != nil {
		return err
	}
	rt.Logger.Debug("runtime started", "drivers", names, "sinks", channels)
	return nil
}

// Shutdown disconnects the sinks, disposes the tree and stops driver services
// in reverse order
func (rt *Runtime) Shutdown() error {
	for _, h := range rt.sinks {
		h.Cancel()
	}
	rt.sinks = nil
	rt.Loop.Stop(nil)
	rt.Tree.Close()
	return rt.Hub.StopAll()
}
