package tree

import (
	"fmt"

	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/style"
)

// applyProperty routes one typed property to the layout handle or to paint metadata
func (n *Node) applyProperty(p style.Property) {
	h := n.handle
	switch p := p.(type) {
	case style.Size:
		switch p.Axis {
		case style.AxisWidth:
			h.SetWidth(p.Value)
		case style.AxisHeight:
			h.SetHeight(p.Value)
		case style.AxisMinWidth:
			h.SetMinWidth(p.Value)
		case style.AxisMinHeight:
			h.SetMinHeight(p.Value)
		case style.AxisMaxWidth:
			h.SetMaxWidth(p.Value)
		case style.AxisMaxHeight:
			h.SetMaxHeight(p.Value)
		}
	case style.Spacing:
		if p.Padding {
			h.SetPadding(p.Edge, p.Value)
		} else {
			h.SetMargin(p.Edge, p.Value)
		}
	case style.Offset:
		h.SetPosition(p.Edge, p.Value)
	case style.FlexDirection:
		h.SetFlexDirection(p.Value)
	case style.FlexFactor:
		if p.Shrink {
			h.SetFlexShrink(p.Value)
		} else {
			h.SetFlexGrow(p.Value)
		}
	case style.FlexWrap:
		h.SetFlexWrap(p.Value)
	case style.Alignment:
		switch p.Key {
		case "alignSelf":
			h.SetAlignSelf(p.Value)
		case "alignContent":
			h.SetAlignContent(p.Value)
		default:
			h.SetAlignItems(p.Value)
		}
	case style.JustifyContent:
		h.SetJustifyContent(p.Value)
	case style.Display:
		h.SetDisplay(p.Value)
	case style.Position:
		n.position = p.Value
		h.SetPositionType(p.Value)
	case style.Overflow:
		n.overflow = p.Value
		h.SetOverflow(p.Value)
	case style.BorderStyle:
		n.border = p.Value
		width := float32(0)
		if p.Value.Visible() {
			width = 1
		}
		h.SetBorder(layout.EdgeAll, width)
	case style.BorderColor:
		n.borderColor = p.Value
	case style.Foreground:
		n.patch.Fg = p.Value
	case style.Background:
		n.patch.Bg = p.Value
	case style.Attribute:
		if p.Unset {
			n.patch.ClearAttr(p.Attr)
		} else {
			n.patch.SetAttr(p.Attr, p.On)
		}
	case style.TextWrap:
		n.wrap = -1
		if p.Value {
			n.wrap = 1
		}
		n.markText()
	case style.ZIndex:
		n.zIndex, n.hasZ = p.Value, !p.Unset
	default:
		panic(fmt.Sprintf("tree: unhandled style property %T", p))
	}
}
