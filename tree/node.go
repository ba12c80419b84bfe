package tree

import (
	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/stream"
	"github.com/lixenwraith/termflow/style"
	"github.com/lixenwraith/termflow/vnode"
)

// Node is a live node. The parent pointer is a non-owning back-reference;
// children are owned and freed with the node.
type Node struct {
	ctx    *Context
	kind   vnode.Kind
	key    string
	leaf   bool
	text   string
	handle layout.Handle

	parent *Node
	// children holds one entry per ordinal position; nil marks an empty slot
	children  []*Node
	listStart int

	subs scope

	patch       style.Patch
	border      style.Border
	borderColor style.Color
	overflow    layout.Overflow
	position    layout.PositionType
	zIndex      int
	hasZ        bool
	wrap        int8 // 0 inherit, 1 on, -1 off

	disposed bool
}

// scope records subscriptions disposed together
type scope struct {
	ctx     *Context
	handles []*stream.Handle
}

func (s *scope) add(h *stream.Handle) {
	s.handles = append(s.handles, h)
	s.ctx.subs++
}

func (s *scope) dispose() {
	hs := s.handles
	s.handles = nil
	s.ctx.subs -= len(hs)
	for i := len(hs) - 1; i >= 0; i-- {
		hs[i].Cancel()
	}
}

func (c *Context) newNode(kind vnode.Kind, key string) *Node {
	n := &Node{
		ctx:    c,
		kind:   kind,
		key:    key,
		handle: c.engine.NewHandle(),
	}
	n.subs.ctx = c
	c.nodes++
	return n
}

// Kind returns the element kind; text leaves report KindText
func (n *Node) Kind() vnode.Kind { return n.kind }

// Key returns the identifying key, empty when unkeyed
func (n *Node) Key() string { return n.key }

// IsLeaf reports whether the node is a measured text run
func (n *Node) IsLeaf() bool { return n.leaf }

// Text returns the content of a text leaf
func (n *Node) Text() string { return n.text }

// Parent returns the parent, nil for the root and detached nodes
func (n *Node) Parent() *Node { return n.parent }

// Children returns the attached children in order
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Disposed reports whether the node has been torn down
func (n *Node) Disposed() bool { return n.disposed }

// Patch returns the node's own style declarations
func (n *Node) Patch() style.Patch { return n.patch }

// Border returns the border style and its color
func (n *Node) Border() (style.Border, style.Color) { return n.border, n.borderColor }

// Overflow returns the clipping mode
func (n *Node) Overflow() layout.Overflow { return n.overflow }

// Absolute reports whether the node is taken out of normal flow
func (n *Node) Absolute() bool { return n.position == layout.Absolute }

// ZIndex returns the paint order key of an absolute node, false when unset
func (n *Node) ZIndex() (int, bool) { return n.zIndex, n.hasZ }

// Wraps reports whether text under the node wraps, following the nearest
// ancestor that declares wrap. Wrapping is on by default.
func (n *Node) Wraps() bool {
	for p := n; p != nil; p = p.parent {
		switch p.wrap {
		case 1:
			return true
		case -1:
			return false
		}
	}
	return true
}

// Rect returns the computed box relative to the parent. Unmeasured or
// disposed nodes report an empty rect.
func (n *Node) Rect() layout.Rect {
	if n.disposed {
		return layout.Rect{}
	}
	return n.handle.Rect()
}

// Bounds returns the computed box in screen coordinates
func (n *Node) Bounds() layout.Rect {
	r := n.Rect()
	for p := n.parent; p != nil; p = p.parent {
		pr := p.Rect()
		r = r.Offset(pr.Left, pr.Top)
	}
	return r
}

// Dispose tears the node down and frees its slot in the parent
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if p := n.parent; p != nil {
		for i, c := range p.children {
			if c == n {
				p.children[i] = nil
			}
		}
	}
	n.dispose()
	n.ctx.invalidate()
}

// dispose releases subscriptions, children, the key and the layout handle, in that order
func (n *Node) dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	n.subs.dispose()
	for _, c := range n.children {
		if c != nil {
			c.dispose()
		}
	}
	n.children = nil
	if n.key != "" {
		n.ctx.deregister(n.key, n)
	}
	n.handle.Free()
	n.parent = nil
	n.ctx.nodes--
}

// layoutIndex is the handle index of slot in n: the count of filled slots before it
func (n *Node) layoutIndex(slot int) int {
	idx := 0
	for i := 0; i < slot && i < len(n.children); i++ {
		if n.children[i] != nil {
			idx++
		}
	}
	return idx
}

// attach places child at slot, growing the slot list as needed
func (n *Node) attach(child *Node, slot int) {
	for len(n.children) <= slot {
		n.children = append(n.children, nil)
	}
	n.handle.InsertChild(child.handle, n.layoutIndex(slot))
	n.children[slot] = child
	child.parent = n
}

// release disposes the occupant of slot, leaving it empty
func (n *Node) release(slot int) {
	if slot >= len(n.children) {
		return
	}
	if c := n.children[slot]; c != nil {
		n.children[slot] = nil
		c.dispose()
	}
}

// markText invalidates the measurement of every text leaf under n
func (n *Node) markText() {
	if n.leaf {
		n.handle.MarkDirty()
		return
	}
	for _, c := range n.children {
		if c != nil {
			c.markText()
		}
	}
}
