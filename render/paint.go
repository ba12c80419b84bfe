package render

import (
	"cmp"
	"slices"

	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/style"
	"github.com/lixenwraith/termflow/text"
	"github.com/lixenwraith/termflow/tree"
)

// frame is the paint state inherited from ancestors
type frame struct {
	style style.Style
	clip  layout.Rect
	// origin of the parent in screen coordinates
	x, y int
}

// painter walks one laid-out tree into a buffer
type painter struct {
	buf      *Buffer
	absolute []*tree.Node
	painted  int
}

// Paint draws the laid-out tree under root into buf and returns the number of
// nodes drawn. Absolutely positioned nodes are drawn after normal flow, ordered
// by zIndex: nodes without one first, then ascending, ties in document order.
func Paint(buf *Buffer, root *tree.Node) int {
	if root == nil || root.Disposed() {
		return 0
	}
	p := &painter{buf: buf}
	p.walk(root, frame{clip: buf.Bounds()}, false)

	for len(p.absolute) > 0 {
		batch := p.absolute
		p.absolute = nil
		slices.SortStableFunc(batch, compareZ)
		for _, n := range batch {
			p.walk(n, p.frameOf(n), true)
		}
	}
	return p.painted
}

// compareZ orders absolute nodes: unkeyed before keyed, keyed ascending
func compareZ(a, b *tree.Node) int {
	za, oka := a.ZIndex()
	zb, okb := b.ZIndex()
	switch {
	case oka != okb:
		if !oka {
			return -1
		}
		return 1
	case oka:
		return cmp.Compare(za, zb)
	}
	return 0
}

func (p *painter) walk(n *tree.Node, f frame, resolved bool) {
	if n.Absolute() && !resolved {
		p.absolute = append(p.absolute, n)
		return
	}
	p.painted++

	r := n.Rect().Offset(f.x, f.y)
	st := f.style.Apply(n.Patch())

	if n.IsLeaf() {
		p.text(n, r, st, f.clip)
		return
	}

	if !n.Patch().Bg.IsDefault() {
		p.buf.Fill(r, st, f.clip)
	}
	border, borderColor := n.Border()
	if border.Visible() {
		p.border(r, border, borderColor, st, f.clip)
	}

	child := frame{style: st, clip: f.clip, x: r.Left, y: r.Top}
	if n.Overflow() == layout.OverflowHidden {
		child.clip = f.clip.Intersect(inner(r, border))
	}
	for _, c := range n.Children() {
		p.walk(c, child, false)
	}
}

// frameOf rebuilds the inherited state of n from its ancestors
func (p *painter) frameOf(n *tree.Node) frame {
	var chain []*tree.Node
	for a := n.Parent(); a != nil; a = a.Parent() {
		chain = append(chain, a)
	}
	f := frame{clip: p.buf.Bounds()}
	for i := len(chain) - 1; i >= 0; i-- {
		a := chain[i]
		r := a.Rect().Offset(f.x, f.y)
		f.style = f.style.Apply(a.Patch())
		if a.Overflow() == layout.OverflowHidden {
			b, _ := a.Border()
			f.clip = f.clip.Intersect(inner(r, b))
		}
		f.x, f.y = r.Left, r.Top
	}
	return f
}

// text draws a leaf, wrapping at its computed width unless wrapping is off
func (p *painter) text(n *tree.Node, r layout.Rect, st style.Style, clip layout.Rect) {
	if r.Empty() {
		return
	}
	var lines []string
	if n.Wraps() {
		lines = text.Wrap(n.Text(), r.Width)
	} else {
		lines = text.Lines(n.Text())
	}
	for i, line := range lines {
		p.buf.WriteString(r.Left, r.Top+i, line, st, clip)
	}
}

// border draws the frame of r; borderColor overrides the inherited foreground
func (p *painter) border(r layout.Rect, b style.Border, borderColor style.Color, st style.Style, clip layout.Rect) {
	if r.Empty() {
		return
	}
	g := b.Glyphs()
	if !borderColor.IsDefault() {
		st.Fg = borderColor
	}
	right, bottom := r.Right()-1, r.Bottom()-1

	for x := r.Left + 1; x < right; x++ {
		p.buf.Set(x, r.Top, g.Horizontal, st, clip)
		p.buf.Set(x, bottom, g.Horizontal, st, clip)
	}
	for y := r.Top + 1; y < bottom; y++ {
		p.buf.Set(r.Left, y, g.Vertical, st, clip)
		p.buf.Set(right, y, g.Vertical, st, clip)
	}
	p.buf.Set(r.Left, r.Top, g.TopLeft, st, clip)
	p.buf.Set(right, r.Top, g.TopRight, st, clip)
	p.buf.Set(r.Left, bottom, g.BottomLeft, st, clip)
	p.buf.Set(right, bottom, g.BottomRight, st, clip)
}

// inner is r without its border cells
func inner(r layout.Rect, b style.Border) layout.Rect {
	if !b.Visible() {
		return r
	}
	r.Left++
	r.Top++
	r.Width -= 2
	r.Height -= 2
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}
