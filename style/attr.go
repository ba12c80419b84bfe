package style

// Attr is a bitmask of text attributes
type Attr uint8

const (
	AttrNone          Attr = 0
	AttrBold          Attr = 1 << 0
	AttrDim           Attr = 1 << 1
	AttrItalic        Attr = 1 << 2
	AttrUnderline     Attr = 1 << 3
	AttrInverse       Attr = 1 << 4
	AttrStrikethrough Attr = 1 << 5
)

// attrSGR lists each attribute with its SGR parameter, in emission order
var attrSGR = [...]struct {
	Attr Attr
	Code int
}{
	{AttrBold, 1},
	{AttrDim, 2},
	{AttrItalic, 3},
	{AttrUnderline, 4},
	{AttrInverse, 7},
	{AttrStrikethrough, 9},
}

// SGR calls fn with the SGR parameter of every attribute set in a
func (a Attr) SGR(fn func(code int)) {
	for _, e := range attrSGR {
		if a&e.Attr != 0 {
			fn(e.Code)
		}
	}
}

// Style is the resolved appearance of one cell
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// Patch is a partial style declared by one node. Unset fields inherit.
type Patch struct {
	Fg Color
	Bg Color
	// On holds attribute values, Mask marks which attributes the node declares
	On   Attr
	Mask Attr
}

// SetAttr declares attribute a as on or off
func (p *Patch) SetAttr(a Attr, on bool) {
	p.Mask |= a
	if on {
		p.On |= a
	} else {
		p.On &^= a
	}
}

// ClearAttr drops the declaration of a so it inherits again
func (p *Patch) ClearAttr(a Attr) {
	p.Mask &^= a
	p.On &^= a
}

// Apply layers p over s
func (s Style) Apply(p Patch) Style {
	if !p.Fg.IsDefault() {
		s.Fg = p.Fg
	}
	if !p.Bg.IsDefault() {
		s.Bg = p.Bg
	}
	s.Attrs = (s.Attrs &^ p.Mask) | (p.On & p.Mask)
	return s
}
