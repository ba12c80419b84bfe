// Package layout is the boundary to the flexbox constraint solver.
// The renderer and tree builder only see Engine and Handle; the solver behind them
// is interchangeable.
package layout

import "math"

// Direction is the main axis of a flex container
type Direction uint8

const (
	Column Direction = iota
	ColumnReverse
	Row
	RowReverse
)

// Justify distributes children along the main axis
type Justify uint8

const (
	JustifyFlexStart Justify = iota
	JustifyCenter
	JustifyFlexEnd
	JustifySpaceBetween
	JustifySpaceAround
)

// Align positions children along the cross axis
type Align uint8

const (
	AlignAuto Align = iota
	AlignFlexStart
	AlignCenter
	AlignFlexEnd
	AlignStretch
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
)

// Wrap controls line breaking of flex children
type Wrap uint8

const (
	NoWrap Wrap = iota
	WrapLines
	WrapReverse
)

// Display toggles participation in layout
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

// PositionType selects normal flow or absolute placement
type PositionType uint8

const (
	Relative PositionType = iota
	Absolute
)

// Overflow is the clipping mode of a container
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
)

// Edge selects which side a spacing value applies to
type Edge uint8

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeHorizontal
	EdgeVertical
	EdgeAll
)

// Unit of a Dimension
type Unit uint8

const (
	UnitPoint Unit = iota
	UnitPercent
	UnitAuto
)

// Dimension is a length in cells, a percentage of the parent, or auto
type Dimension struct {
	Value float32
	Unit  Unit
}

// Cells returns a fixed cell length
func Cells(n float32) Dimension { return Dimension{Value: n, Unit: UnitPoint} }

// Percent returns a length relative to the parent
func Percent(p float32) Dimension { return Dimension{Value: p, Unit: UnitPercent} }

// Auto lets the solver decide
var Auto = Dimension{Unit: UnitAuto}

// MeasureMode constrains a measure request
type MeasureMode uint8

const (
	MeasureUndefined MeasureMode = iota
	MeasureExactly
	MeasureAtMost
)

// MeasureFunc sizes a leaf. width/height are meaningful per their modes.
type MeasureFunc func(width float32, widthMode MeasureMode, height float32, heightMode MeasureMode) (w, h float32)

// Rect is a computed box in whole cells, relative to the parent box
type Rect struct {
	Left, Top     int
	Width, Height int
}

// Right returns the exclusive right edge
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() int { return r.Top + r.Height }

// Offset translates the rect
func (r Rect) Offset(dx, dy int) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// Empty reports whether the rect has no area
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersect returns the overlap of two rects, empty when disjoint
func (r Rect) Intersect(o Rect) Rect {
	left := max(r.Left, o.Left)
	top := max(r.Top, o.Top)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Rect{Left: left, Top: top}
	}
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Contains reports whether the cell lies inside the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Handle is one node of the solver's tree
type Handle interface {
	SetWidth(Dimension)
	SetHeight(Dimension)
	SetMinWidth(Dimension)
	SetMinHeight(Dimension)
	SetMaxWidth(Dimension)
	SetMaxHeight(Dimension)

	SetFlexDirection(Direction)
	SetJustifyContent(Justify)
	SetAlignItems(Align)
	SetAlignSelf(Align)
	SetAlignContent(Align)
	SetFlexWrap(Wrap)
	SetFlexGrow(float32)
	SetFlexShrink(float32)
	SetDisplay(Display)

	SetPositionType(PositionType)
	SetPosition(Edge, Dimension)
	SetMargin(Edge, Dimension)
	SetPadding(Edge, Dimension)
	SetBorder(Edge, float32)
	SetOverflow(Overflow)

	// SetMeasure turns the handle into a measured leaf; nil restores a container
	SetMeasure(MeasureFunc)
	// MarkDirty invalidates the cached measurement of a measured leaf
	MarkDirty()

	InsertChild(child Handle, index int)
	RemoveChild(child Handle)
	ChildCount() int
	Parent() Handle

	// Rect returns the computed box, zero-sized while unmeasured
	Rect() Rect
	// Free detaches the handle from its parent and releases it
	Free()
}

// Engine creates handles and solves layouts
type Engine interface {
	NewHandle() Handle
	Calculate(root Handle, width, height int) error
}

// round converts a solver length to whole cells; NaN counts as zero
func round(v float32) int {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
