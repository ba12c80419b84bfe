// Package effect adapts a plain function into a driver. Every action is
// passed to the function as it arrives, without buffering.
package effect

import (
	"fmt"

	"github.com/lixenwraith/termflow/driver"
	"github.com/lixenwraith/termflow/service"
	"github.com/lixenwraith/termflow/stream"
)

// New returns a relay driver calling fn for every action. Its query API is nil.
func New[T any](name string, fn func(T)) driver.Driver {
	return func(actions stream.Source[any], rt *driver.Runtime) (any, error) {
		var sub *stream.Handle
		err := rt.Hub.Register(&service.Func{
			ID: "effect:" + name,
			OnStop: func() error {
				sub.Cancel()
				return nil
			},
		})
		if err != nil {
			return nil, err
		}

		sub = stream.ForEach(actions, func(v any) {
			if t, ok := v.(T); ok {
				fn(t)
				return
			}
			rt.Logger.Warn("effect action dropped", "component", "effect", "effect", name, "type", fmt.Sprintf("%T", v))
		})
		return nil, nil
	}
}

// Log returns a relay driver logging every action at debug level
func Log(name string) driver.Driver {
	return func(actions stream.Source[any], rt *driver.Runtime) (any, error) {
		logger := rt.Logger.With("component", "effect", "effect", name)
		return New(name, func(v any) { logger.Debug("action", "value", v) })(actions, rt)
	}
}
