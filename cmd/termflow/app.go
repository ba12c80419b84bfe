package main

import (
	"fmt"
	"time"

	"github.com/lixenwraith/termflow/config"
	"github.com/lixenwraith/termflow/driver"
	"github.com/lixenwraith/termflow/driver/effect"
	"github.com/lixenwraith/termflow/driver/state"
	"github.com/lixenwraith/termflow/driver/timer"
	"github.com/lixenwraith/termflow/driver/tty"
	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/scene"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/terminal"
	"github.com/lixenwraith/termflow/vnode"
)

const totalKey = "total"

// newDrivers returns the channels of the demo. backend is nil for the process tty.
func newDrivers(cfg config.Config, backend terminal.Backend, quit func()) driver.Drivers {
	ttyOpts := []tty.Option{tty.WithSignalHooks(cfg.Render.SignalHooks)}
	if backend != nil {
		ttyOpts = append([]tty.Option{tty.WithBackend(backend)}, ttyOpts...)
	}

	var stateOpts []state.Option
	if cfg.State.Path != "" {
		stateOpts = append(stateOpts, state.WithPersistence(cfg.State.Path))
	}

	return driver.Drivers{
		"tty":   tty.New(ttyOpts...),
		"state": state.New(stateOpts...),
		"time":  timer.New(),
		"log":   effect.Log("keys"),
		"quit":  effect.New("quit", func(terminal.KeyEvent) { quit() }),
	}
}

func pressed(n int) string {
	if n == 1 {
		return "Pressed 1 time"
	}
	return fmt.Sprintf("Pressed %d times", n)
}

// newApp builds the counter application. Return counts, q or ctrl+c quits.
// sceneData, when set, replaces the built-in view; it may bind count, total and clock.
func newApp(sceneData []byte) driver.App {
	return func(src driver.Sources) driver.Sinks {
		term := driver.MustQuery[*tty.Source](src, "tty")
		st := driver.MustQuery[*state.Source](src, "state")
		clock := driver.MustQuery[*timer.Source](src, "time")

		keys := stream.Share(term.Keypress())
		presses := stream.Share(stream.Pipe(keys, stream.Filter(func(k terminal.KeyEvent) bool { return k.Is("return") })))

		count := stream.Pipe3(
			presses,
			stream.Fold(func(n int, _ terminal.KeyEvent) int { return n + 1 }, 0),
			stream.StartWith(0),
			stream.Map(pressed),
		)

		total := stream.Remember(stream.Pipe2(
			st.Get(totalKey),
			stream.StartWith[any](nil),
			stream.Map(func(v any) int {
				n, _ := state.Decode[int](v)
				return n
			}),
		))
		totalLabel := stream.Pipe(total, stream.Map(func(n int) string { return fmt.Sprintf("%d in total", n) }))

		now := stream.Pipe2(
			clock.Interval(time.Second),
			stream.Map(func(int) string { return time.Now().Format(time.TimeOnly) }),
			stream.StartWith(time.Now().Format(time.TimeOnly)),
		)

		view, err := buildView(sceneData, scene.Bindings{
			"count": count,
			"total": totalLabel,
			"clock": now,
		})
		var ui stream.Source[vnode.Node]
		if err != nil {
			ui = stream.Fail[vnode.Node](errs.WrapFatal(err, "termflow", "newApp", "build scene"))
		} else {
			ui = stream.Pipe(stream.Never[vnode.Node](), stream.StartWith(view))
		}

		return driver.Sinks{
			"tty": ui,
			"state": stream.Pipe2(
				total,
				stream.Sample[int](presses),
				stream.Map(func(n int) any { return state.Set{Key: totalKey, Value: n + 1} }),
			),
			"log": stream.Pipe(keys, stream.Map(terminal.KeyEvent.String)),
			"quit": stream.Pipe(keys, stream.Filter(func(k terminal.KeyEvent) bool {
				return k.Is("q") || k.Is("ctrl+c")
			})),
		}
	}
}

func buildView(sceneData []byte, b scene.Bindings) (vnode.Node, error) {
	if len(sceneData) > 0 {
		return scene.Parse(sceneData, b)
	}
	return vnode.Root(nil,
		vnode.Box(vnode.Props{"border": "rounded", "padding": 1, "borderColor": "teal"},
			vnode.Text(vnode.Props{"bold": true, "color": "aqua"}, "termflow"),
			vnode.Box(nil, vnode.Text(nil, b["count"])),
			vnode.Text(vnode.Props{"dim": true}, b["total"]),
			vnode.Text(nil, b["clock"]),
			vnode.Text(vnode.Props{"dim": true, "italic": true}, "return: count   q: quit"),
		),
	), nil
}
