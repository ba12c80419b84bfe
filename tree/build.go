package tree

import (
	"errors"
	"maps"
	"math"
	"slices"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/style"
	"github.com/lixenwraith/termflow/text"
	"github.com/lixenwraith/termflow/vnode"
)

// Build materializes desc as child slot index of parent, or as a detached root
// when parent is nil. Absent descriptions yield a nil node. Configuration errors
// in static values are returned and nothing is attached.
func (c *Context) Build(parent *Node, desc vnode.Node, index int) (*Node, error) {
	var (
		n   *Node
		err error
	)
	switch d := desc.(type) {
	case nil:
		return nil, nil
	case vnode.Plain:
		n = c.newLeaf(string(d))
	case *vnode.Element:
		if d == nil {
			return nil, nil
		}
		n, err = c.buildElement(d)
	default:
		return nil, errs.WrapInvalid(errs.ErrInvalidProperty, "tree", "Build", "resolve description")
	}
	if err != nil {
		return nil, err
	}

	if parent != nil {
		parent.attach(n, index)
	}
	if n.key != "" {
		c.register(n.key, n)
	}
	c.invalidate()
	return n, nil
}

func (c *Context) newLeaf(s string) *Node {
	n := c.newNode(vnode.KindText, "")
	n.leaf = true
	n.text = s
	// Leaves shrink to the row so the measure pass sees the width to wrap at
	n.handle.SetFlexShrink(1)
	n.handle.SetMeasure(func(w float32, wm layout.MeasureMode, _ float32, _ layout.MeasureMode) (float32, float32) {
		limit := -1
		if wm != layout.MeasureUndefined && !math.IsNaN(float64(w)) {
			limit = max(int(w), 0)
		}
		tw, th := text.Measure(n.text, limit, n.Wraps())
		return float32(tw), float32(th)
	})
	return n
}

func (c *Context) buildElement(el *vnode.Element) (*Node, error) {
	n := c.newNode(el.Kind, el.Key)
	if el.Kind == vnode.KindText {
		n.handle.SetFlexDirection(layout.Row)
		n.handle.SetFlexWrap(layout.WrapLines)
	}

	for _, key := range slices.Sorted(maps.Keys(el.Props)) {
		var err error
		switch key {
		case "key", "id":
			continue
		case "style":
			err = n.applyStyle(&n.subs, el.Props[key])
		default:
			err = n.applyValue(&n.subs, key, el.Props[key])
		}
		if err != nil {
			n.dispose()
			return nil, err
		}
	}

	for i, child := range el.Children {
		if child.IsLive() {
			n.bindSlot(i, child.Live)
			continue
		}
		if _, err := c.Build(n, child.Static, i); err != nil {
			n.dispose()
			return nil, err
		}
	}

	n.listStart = len(el.Children)
	if el.ChildList != nil {
		n.bindList(el.ChildList)
	}
	return n, nil
}

// applyValue applies one property, subscribing when the value is live
func (n *Node) applyValue(sc *scope, key string, v any) error {
	d, ok := v.(stream.Dynamic)
	if !ok {
		return n.set(key, v)
	}
	if !style.Known(key) {
		_, err := style.Parse(key, nil)
		return err
	}
	sc.add(stream.Subscribe(d.Any(), func(x any) {
		if err := n.set(key, x); err != nil {
			n.ctx.report(err)
			return
		}
		n.ctx.invalidate()
	}, n.reportEnd))
	return nil
}

// applyStyle applies a style map. A live map replaces the previous emission's
// subscriptions on every value.
func (n *Node) applyStyle(sc *scope, v any) error {
	switch s := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return n.applyStyleMap(sc, s)
	case vnode.Props:
		return n.applyStyleMap(sc, s)
	case stream.Dynamic:
		inner := &scope{ctx: n.ctx}
		sc.add(stream.NewHandle(inner.dispose))
		sc.add(stream.Subscribe(s.Any(), func(x any) {
			inner.dispose()
			if err := n.applyStyle(inner, x); err != nil {
				n.ctx.report(err)
			}
			n.ctx.invalidate()
		}, n.reportEnd))
		return nil
	default:
		return errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidProperty, "style", nil), "tree", "Build", "apply style")
	}
}

func (n *Node) applyStyleMap(sc *scope, m map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if err := n.applyValue(sc, key, m[key]); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) set(key string, v any) error {
	p, err := style.Parse(key, v)
	if err != nil {
		return err
	}
	n.applyProperty(p)
	return nil
}

// bindSlot keeps slot filled with the latest description from src
func (n *Node) bindSlot(slot int, src stream.Source[vnode.Node]) {
	for len(n.children) <= slot {
		n.children = append(n.children, nil)
	}
	n.subs.add(stream.Subscribe(src, func(desc vnode.Node) {
		if n.disposed {
			return
		}
		n.release(slot)
		if _, err := n.ctx.Build(n, desc, slot); err != nil {
			n.ctx.report(err)
		}
		n.ctx.invalidate()
	}, n.reportEnd))
}

// bindList replaces every child after listStart on each emission
func (n *Node) bindList(src stream.Source[[]vnode.Node]) {
	n.subs.add(stream.Subscribe(src, func(descs []vnode.Node) {
		if n.disposed {
			return
		}
		for i := len(n.children) - 1; i >= n.listStart; i-- {
			n.release(i)
		}
		if len(n.children) > n.listStart {
			n.children = n.children[:n.listStart]
		}
		for i, desc := range descs {
			if _, err := n.ctx.Build(n, desc, n.listStart+i); err != nil {
				n.ctx.report(err)
			}
		}
		n.ctx.invalidate()
	}, n.reportEnd))
}

func (n *Node) reportEnd(err error) {
	if err != nil && !errors.Is(err, stream.ErrCanceled) {
		n.ctx.report(errs.Wrap(err, "tree", "Build", "follow live value"))
	}
}
