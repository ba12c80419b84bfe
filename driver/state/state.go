// Package state is a keyed state driver. The application sends Set and Delete
// actions; Get streams the value of a key, starting with the current one.
// Values may be persisted in a bolt database, in which case they round-trip
// through JSON.
package state

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/lixenwraith/termflow/driver"
	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/service"
	"github.com/lixenwraith/termflow/stream"
)

// Set stores Value under Key
type Set struct {
	Key   string
	Value any
}

// Delete removes Key; subscribers of the key receive nil
type Delete struct {
	Key string
}

type config struct {
	path string
}

// Option configures the driver
type Option func(*config)

// WithPersistence stores values in the bolt database at path
func WithPersistence(path string) Option {
	return func(c *config) { c.path = path }
}

// Source is the query API of the state driver
type Source struct {
	rt       *driver.Runtime
	values   map[string]any
	subjects map[string]*stream.Broadcast[any]
	store    *Store
}

// New returns the state driver
func New(opts ...Option) driver.Driver {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(actions stream.Source[any], rt *driver.Runtime) (any, error) {
		s := &Source{
			rt:       rt,
			values:   make(map[string]any),
			subjects: make(map[string]*stream.Broadcast[any]),
		}

		var sub *stream.Handle
		err := rt.Hub.Register(&service.Func{
			ID: "state",
			OnInit: func() error {
				if cfg.path == "" || s.store != nil {
					return nil
				}
				store, err := OpenStore(cfg.path)
				if err != nil {
					return err
				}
				loaded, err := store.Load()
				if err != nil {
					store.Close()
					return err
				}
				s.store = store
				maps.Copy(s.values, loaded)
				rt.Logger.Debug("state loaded", "component", "state", "path", cfg.path, "keys", len(loaded))
				return nil
			},
			OnStop: func() error {
				sub.Cancel()
				if s.store == nil {
					return nil
				}
				err := s.store.Close()
				s.store = nil
				return err
			},
		})
		if err != nil {
			return nil, err
		}

		sub = stream.ForEach(actions, s.apply)
		return s, nil
	}
}

func (s *Source) apply(action any) {
	switch a := action.(type) {
	case Set:
		s.set(a.Key, a.Value)
	case *Set:
		s.set(a.Key, a.Value)
	case Delete:
		s.delete(a.Key)
	case *Delete:
		s.delete(a.Key)
	default:
		s.rt.Report(errs.WrapInvalid(fmt.Errorf("%w: state action %T", errs.ErrInvalidConfig, action), "state", "apply", "dispatch action"))
	}
}

func (s *Source) set(key string, value any) {
	s.values[key] = value
	if s.store != nil {
		if err := s.store.Put(key, value); err != nil {
			s.rt.Report(err)
		}
	}
	if b := s.subjects[key]; b != nil {
		b.Next(value)
	}
}

func (s *Source) delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	if s.store != nil {
		if err := s.store.Delete(key); err != nil {
			s.rt.Report(err)
		}
	}
	if b := s.subjects[key]; b != nil {
		b.Next(nil)
	}
}

// Get streams the value of key: the current value on subscribe if one is set,
// then every change, with nil after a Delete
func (s *Source) Get(key string) stream.Source[any] {
	return stream.Create(func(e *stream.Emitter[any]) func() {
		if v, ok := s.values[key]; ok {
			e.Next(v)
		}
		b := s.subjects[key]
		if b == nil {
			b = stream.NewBroadcast[any]()
			s.subjects[key] = b
		}
		h := stream.ForEach(b.Source(), e.Next)
		return func() {
			h.Cancel()
			if b.Listeners() == 0 && s.subjects[key] == b {
				delete(s.subjects, key)
			}
		}
	})
}

// Value returns the current value of key
func (s *Source) Value(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the set keys, sorted
func (s *Source) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Decode converts a state value to T. Values of another dynamic type, such as
// numbers loaded from storage as float64, are converted through JSON.
func Decode[T any](v any) (T, bool) {
	var out T
	if t, ok := v.(T); ok {
		return t, true
	}
	if v == nil {
		return out, false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}
