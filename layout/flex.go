package layout

import (
	"fmt"

	"github.com/kjk/flex"

	errs "github.com/lixenwraith/termflow/errors"
)

// FlexEngine solves layouts with the flex port of Yoga
type FlexEngine struct {
	config *flex.Config
}

// NewFlexEngine creates an engine rounding to whole terminal cells
func NewFlexEngine() *FlexEngine {
	return &FlexEngine{config: flex.NewConfig()}
}

// NewHandle creates a detached container handle
func (e *FlexEngine) NewHandle() Handle {
	return &flexHandle{node: flex.NewNodeWithConfig(e.config)}
}

// Calculate lays out the tree rooted at root inside width×height cells
func (e *FlexEngine) Calculate(root Handle, width, height int) (err error) {
	fh, ok := root.(*flexHandle)
	if !ok {
		return errs.WrapFatal(fmt.Errorf("%w: foreign handle %T", errs.ErrLayoutUnavailable, root),
			"layout", "Calculate", "resolve root")
	}
	if fh.freed {
		return errs.WrapLifecycle(errs.ErrNodeDisposed, "layout", "Calculate", "resolve root")
	}
	// The solver reports violated invariants by panicking
	defer func() {
		if r := recover(); r != nil {
			err = errs.WrapFatal(fmt.Errorf("%w: %v", errs.ErrLayoutUnavailable, r),
				"layout", "Calculate", "solve")
		}
	}()
	flex.CalculateLayout(fh.node, float32(max(width, 0)), float32(max(height, 0)), flex.DirectionLTR)
	return nil
}

type flexHandle struct {
	node     *flex.Node
	parent   *flexHandle
	children []*flexHandle
	measured bool
	freed    bool
}

func (h *flexHandle) SetWidth(d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetWidthPercent(d.Value)
	case UnitAuto:
		h.node.StyleSetWidthAuto()
	default:
		h.node.StyleSetWidth(d.Value)
	}
}

func (h *flexHandle) SetHeight(d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetHeightPercent(d.Value)
	case UnitAuto:
		h.node.StyleSetHeightAuto()
	default:
		h.node.StyleSetHeight(d.Value)
	}
}

func (h *flexHandle) SetMinWidth(d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetMinWidthPercent(d.Value)
	case UnitAuto:
		h.node.StyleSetMinWidth(flex.Undefined)
	default:
		h.node.StyleSetMinWidth(d.Value)
	}
}

func (h *flexHandle) SetMinHeight(d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetMinHeightPercent(d.Value)
	case UnitAuto:
		h.node.StyleSetMinHeight(flex.Undefined)
	default:
		h.node.StyleSetMinHeight(d.Value)
	}
}

func (h *flexHandle) SetMaxWidth(d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetMaxWidthPercent(d.Value)
	case UnitAuto:
		h.node.StyleSetMaxWidth(flex.Undefined)
	default:
		h.node.StyleSetMaxWidth(d.Value)
	}
}

func (h *flexHandle) SetMaxHeight(d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetMaxHeightPercent(d.Value)
	case UnitAuto:
		h.node.StyleSetMaxHeight(flex.Undefined)
	default:
		h.node.StyleSetMaxHeight(d.Value)
	}
}

func (h *flexHandle) SetFlexDirection(d Direction) {
	h.node.StyleSetFlexDirection(flexDirections[d])
}

func (h *flexHandle) SetJustifyContent(j Justify) {
	h.node.StyleSetJustifyContent(flexJustify[j])
}

func (h *flexHandle) SetAlignItems(a Align) {
	h.node.StyleSetAlignItems(flexAlign[a])
}

func (h *flexHandle) SetAlignSelf(a Align) {
	h.node.StyleSetAlignSelf(flexAlign[a])
}

func (h *flexHandle) SetAlignContent(a Align) {
	h.node.StyleSetAlignContent(flexAlign[a])
}

func (h *flexHandle) SetFlexWrap(w Wrap) {
	h.node.StyleSetFlexWrap(flexWrap[w])
}

func (h *flexHandle) SetFlexGrow(v float32) {
	h.node.StyleSetFlexGrow(v)
}

func (h *flexHandle) SetFlexShrink(v float32) {
	h.node.StyleSetFlexShrink(v)
}

func (h *flexHandle) SetDisplay(d Display) {
	if d == DisplayNone {
		h.node.StyleSetDisplay(flex.DisplayNone)
		return
	}
	h.node.StyleSetDisplay(flex.DisplayFlex)
}

func (h *flexHandle) SetPositionType(p PositionType) {
	if p == Absolute {
		h.node.StyleSetPositionType(flex.PositionTypeAbsolute)
		return
	}
	h.node.StyleSetPositionType(flex.PositionTypeRelative)
}

func (h *flexHandle) SetPosition(e Edge, d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetPositionPercent(flexEdges[e], d.Value)
	case UnitAuto:
		h.node.StyleSetPosition(flexEdges[e], flex.Undefined)
	default:
		h.node.StyleSetPosition(flexEdges[e], d.Value)
	}
}

func (h *flexHandle) SetMargin(e Edge, d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetMarginPercent(flexEdges[e], d.Value)
	case UnitAuto:
		h.node.StyleSetMarginAuto(flexEdges[e])
	default:
		h.node.StyleSetMargin(flexEdges[e], d.Value)
	}
}

func (h *flexHandle) SetPadding(e Edge, d Dimension) {
	switch d.Unit {
	case UnitPercent:
		h.node.StyleSetPaddingPercent(flexEdges[e], d.Value)
	case UnitAuto:
		h.node.StyleSetPadding(flexEdges[e], 0)
	default:
		h.node.StyleSetPadding(flexEdges[e], d.Value)
	}
}

func (h *flexHandle) SetBorder(e Edge, v float32) {
	h.node.StyleSetBorder(flexEdges[e], v)
}

func (h *flexHandle) SetOverflow(o Overflow) {
	h.node.StyleSetOverflow(flexOverflow[o])
}

func (h *flexHandle) SetMeasure(fn MeasureFunc) {
	if fn == nil {
		h.node.SetMeasureFunc(nil)
		h.measured = false
		return
	}
	h.node.SetMeasureFunc(func(_ *flex.Node, width float32, wm flex.MeasureMode, height float32, hm flex.MeasureMode) flex.Size {
		w, ht := fn(width, measureModes[wm], height, measureModes[hm])
		return flex.Size{Width: w, Height: ht}
	})
	h.measured = true
}

// MarkDirty is a no-op for containers; the solver only tracks dirtiness of measured leaves
func (h *flexHandle) MarkDirty() {
	if h.measured && !h.freed {
		h.node.MarkDirty()
	}
}

func (h *flexHandle) InsertChild(child Handle, index int) {
	c, ok := child.(*flexHandle)
	if !ok || c == h {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	index = min(max(index, 0), len(h.children))
	h.node.InsertChild(c.node, index)
	h.children = append(h.children, nil)
	copy(h.children[index+1:], h.children[index:])
	h.children[index] = c
	c.parent = h
}

func (h *flexHandle) RemoveChild(child Handle) {
	c, ok := child.(*flexHandle)
	if !ok || c.parent != h {
		return
	}
	h.node.RemoveChild(c.node)
	for i, cc := range h.children {
		if cc == c {
			h.children = append(h.children[:i], h.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

func (h *flexHandle) ChildCount() int {
	return len(h.children)
}

func (h *flexHandle) Parent() Handle {
	if h.parent == nil {
		return nil
	}
	return h.parent
}

func (h *flexHandle) Rect() Rect {
	if h.freed {
		return Rect{}
	}
	return Rect{
		Left:   round(h.node.LayoutGetLeft()),
		Top:    round(h.node.LayoutGetTop()),
		Width:  max(round(h.node.LayoutGetWidth()), 0),
		Height: max(round(h.node.LayoutGetHeight()), 0),
	}
}

func (h *flexHandle) Free() {
	if h.freed {
		return
	}
	if h.parent != nil {
		h.parent.RemoveChild(h)
	}
	for len(h.children) > 0 {
		h.RemoveChild(h.children[len(h.children)-1])
	}
	if h.measured {
		h.node.SetMeasureFunc(nil)
		h.measured = false
	}
	h.freed = true
}

var flexDirections = [...]flex.FlexDirection{
	Column:        flex.FlexDirectionColumn,
	ColumnReverse: flex.FlexDirectionColumnReverse,
	Row:           flex.FlexDirectionRow,
	RowReverse:    flex.FlexDirectionRowReverse,
}

var flexJustify = [...]flex.Justify{
	JustifyFlexStart:    flex.JustifyFlexStart,
	JustifyCenter:       flex.JustifyCenter,
	JustifyFlexEnd:      flex.JustifyFlexEnd,
	JustifySpaceBetween: flex.JustifySpaceBetween,
	JustifySpaceAround:  flex.JustifySpaceAround,
}

var flexAlign = [...]flex.Align{
	AlignAuto:         flex.AlignAuto,
	AlignFlexStart:    flex.AlignFlexStart,
	AlignCenter:       flex.AlignCenter,
	AlignFlexEnd:      flex.AlignFlexEnd,
	AlignStretch:      flex.AlignStretch,
	AlignBaseline:     flex.AlignBaseline,
	AlignSpaceBetween: flex.AlignSpaceBetween,
	AlignSpaceAround:  flex.AlignSpaceAround,
}

var flexWrap = [...]flex.Wrap{
	NoWrap:      flex.WrapNoWrap,
	WrapLines:   flex.WrapWrap,
	WrapReverse: flex.WrapWrapReverse,
}

var flexOverflow = [...]flex.Overflow{
	OverflowVisible: flex.OverflowVisible,
	OverflowHidden:  flex.OverflowHidden,
	OverflowScroll:  flex.OverflowScroll,
}

var flexEdges = [...]flex.Edge{
	EdgeLeft:       flex.EdgeLeft,
	EdgeTop:        flex.EdgeTop,
	EdgeRight:      flex.EdgeRight,
	EdgeBottom:     flex.EdgeBottom,
	EdgeHorizontal: flex.EdgeHorizontal,
	EdgeVertical:   flex.EdgeVertical,
	EdgeAll:        flex.EdgeAll,
}

var measureModes = map[flex.MeasureMode]MeasureMode{
	flex.MeasureModeUndefined: MeasureUndefined,
	flex.MeasureModeExactly:   MeasureExactly,
	flex.MeasureModeAtMost:    MeasureAtMost,
}
