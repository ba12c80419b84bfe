// Package tree materializes node descriptions into live nodes backed by layout
// handles and keeps them current as live properties and children emit.
package tree

import (
	"log/slog"
	"maps"
	"slices"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/vnode"
)

// Context owns one live tree: the layout engine, the key lookup table and its
// listeners, and the hooks through which mutations request a repaint.
// All methods must be called from the runtime loop.
type Context struct {
	engine layout.Engine
	logger *slog.Logger

	root *Node

	keys      map[string]*Node // committed, visible to Lookup and Select
	pending   map[string]*Node // registered since the last Commit
	selectors map[string]*stream.Broadcast[*Node]

	schedule func()
	onError  func(error)

	nodes int
	subs  int
}

// Option configures a Context
type Option func(*Context)

// WithLogger sets the logger; the context adds a component attribute
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l.With("component", "tree")
		}
	}
}

// WithScheduler sets the function called whenever the tree changes
func WithScheduler(fn func()) Option {
	return func(c *Context) { c.schedule = fn }
}

// WithErrorHandler receives errors raised by live emissions
func WithErrorHandler(fn func(error)) Option {
	return func(c *Context) { c.onError = fn }
}

// NewContext creates an empty tree on engine
func NewContext(engine layout.Engine, opts ...Option) *Context {
	c := &Context{
		engine:    engine,
		logger:    slog.New(slog.DiscardHandler),
		keys:      make(map[string]*Node),
		pending:   make(map[string]*Node),
		selectors: make(map[string]*stream.Broadcast[*Node]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetScheduler replaces the repaint hook
func (c *Context) SetScheduler(fn func()) {
	c.schedule = fn
}

// Root returns the mounted root, nil before Mount
func (c *Context) Root() *Node {
	return c.root
}

// Mount replaces the whole tree with desc. A description that is not a root
// element is wrapped in an implicit root container.
func (c *Context) Mount(desc vnode.Node) (*Node, error) {
	if c.root != nil {
		c.root.dispose()
		c.root = nil
	}

	var (
		root *Node
		err  error
	)
	if el, ok := desc.(*vnode.Element); ok && el != nil && el.Kind == vnode.KindRoot {
		root, err = c.Build(nil, el, 0)
	} else {
		root = c.newNode(vnode.KindRoot, "")
		if _, err = c.Build(root, desc, 0); err != nil {
			root.dispose()
			root = nil
		}
	}
	if err != nil {
		return nil, err
	}
	c.root = root
	c.invalidate()
	return root, nil
}

// Calculate lays the mounted tree out in width×height cells
func (c *Context) Calculate(width, height int) error {
	if c.root == nil {
		return nil
	}
	return c.engine.Calculate(c.root.handle, width, height)
}

// Close disposes the mounted tree
func (c *Context) Close() {
	if c.root != nil {
		c.root.dispose()
		c.root = nil
	}
}

// Lookup returns the attached node registered under key.
// Nodes registered since the last Commit are not visible yet. When two attached
// nodes share a key the one registered last wins.
func (c *Context) Lookup(key string) (*Node, bool) {
	n, ok := c.keys[key]
	return n, ok
}

// Select streams the node registered under key: the current node immediately if
// one is committed, then each node committed under key afterwards, and nil when
// the registered node is torn down. Duplicate keys follow Lookup: last registered wins.
func (c *Context) Select(key string) stream.Source[*Node] {
	return stream.Create(func(e *stream.Emitter[*Node]) func() {
		if n, ok := c.keys[key]; ok {
			e.Next(n)
		}
		b := c.selectors[key]
		if b == nil {
			b = stream.NewBroadcast[*Node]()
			c.selectors[key] = b
		}
		h := stream.ForEach(b.Source(), e.Next)
		return func() {
			h.Cancel()
			if b.Listeners() == 0 && c.selectors[key] == b {
				delete(c.selectors, key)
			}
		}
	})
}

// Commit publishes keys registered since the previous call. The renderer calls
// it after the paint pass that laid the new nodes out.
func (c *Context) Commit() {
	if len(c.pending) == 0 {
		return
	}
	batch := c.pending
	c.pending = make(map[string]*Node)
	for _, key := range slices.Sorted(maps.Keys(batch)) {
		n := batch[key]
		c.keys[key] = n
		if b := c.selectors[key]; b != nil {
			b.Next(n)
		}
	}
}

// Stats reports the number of live nodes and recorded subscriptions
func (c *Context) Stats() (nodes, subscriptions int) {
	return c.nodes, c.subs
}

func (c *Context) register(key string, n *Node) {
	prev := c.pending[key]
	if prev == nil {
		prev = c.keys[key]
	}
	if prev != nil && prev != n && !prev.Disposed() {
		c.logger.Warn("duplicate key, earlier node no longer selectable", "key", key)
	}
	c.pending[key] = n
}

func (c *Context) deregister(key string, n *Node) {
	if c.pending[key] == n {
		delete(c.pending, key)
	}
	if c.keys[key] == n {
		delete(c.keys, key)
		if b := c.selectors[key]; b != nil {
			b.Next(nil)
		}
	}
}

func (c *Context) invalidate() {
	if c.schedule != nil {
		c.schedule()
	}
}

// report surfaces an error raised outside Build
func (c *Context) report(err error) {
	if err == nil {
		return
	}
	c.logger.Warn("live update failed", "error", err, "class", errs.Classify(err).String())
	if c.onError != nil {
		c.onError(err)
	}
}
