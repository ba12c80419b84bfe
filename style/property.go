package style

import "github.com/lixenwraith/termflow/layout"

// Property is one recognized style declaration with a typed payload.
// The set of implementations is closed; consumers dispatch with a type switch.
type Property interface {
	// Name returns the style key the property was parsed from
	Name() string
	property()
}

// Size sets width, height or one of their bounds
type Size struct {
	Key   string
	Axis  SizeAxis
	Value layout.Dimension
}

// SizeAxis selects which size constraint a Size declares
type SizeAxis uint8

const (
	AxisWidth SizeAxis = iota
	AxisHeight
	AxisMinWidth
	AxisMinHeight
	AxisMaxWidth
	AxisMaxHeight
)

// Spacing sets margin or padding on one or more edges
type Spacing struct {
	Key     string
	Padding bool
	Edge    layout.Edge
	Value   layout.Dimension
}

// Offset sets top/left/right/bottom of a positioned node
type Offset struct {
	Key   string
	Edge  layout.Edge
	Value layout.Dimension
}

// FlexDirection sets the main axis
type FlexDirection struct{ Value layout.Direction }

// FlexFactor sets flexGrow or flexShrink
type FlexFactor struct {
	Key    string
	Shrink bool
	Value  float32
}

// FlexWrap sets line wrapping of flex children
type FlexWrap struct{ Value layout.Wrap }

// Alignment sets alignItems, alignSelf or alignContent
type Alignment struct {
	Key   string
	Value layout.Align
}

// JustifyContent distributes children on the main axis
type JustifyContent struct{ Value layout.Justify }

// Display toggles layout participation
type Display struct{ Value layout.Display }

// Position selects relative or absolute placement
type Position struct{ Value layout.PositionType }

// Overflow sets the clipping mode
type Overflow struct{ Value layout.Overflow }

// BorderStyle sets the border line style
type BorderStyle struct{ Value Border }

// BorderColor sets the border foreground
type BorderColor struct{ Value Color }

// Foreground sets the text color
type Foreground struct{ Value Color }

// Background sets the fill color
type Background struct{ Value Color }

// Attribute declares one text attribute on or off.
// Unset clears the declaration so the attribute inherits again.
type Attribute struct {
	Key   string
	Attr  Attr
	On    bool
	Unset bool
}

// TextWrap enables or disables wrapping of descendant text
type TextWrap struct{ Value bool }

// ZIndex orders absolutely positioned nodes. Unset removes the key.
type ZIndex struct {
	Value int
	Unset bool
}

func (p Size) Name() string         { return p.Key }
func (p Spacing) Name() string      { return p.Key }
func (p Offset) Name() string       { return p.Key }
func (FlexDirection) Name() string  { return "flexDirection" }
func (p FlexFactor) Name() string   { return p.Key }
func (FlexWrap) Name() string       { return "flexWrap" }
func (p Alignment) Name() string    { return p.Key }
func (JustifyContent) Name() string { return "justifyContent" }
func (Display) Name() string        { return "display" }
func (Position) Name() string       { return "position" }
func (Overflow) Name() string       { return "overflow" }
func (BorderStyle) Name() string    { return "border" }
func (BorderColor) Name() string    { return "borderColor" }
func (Foreground) Name() string     { return "color" }
func (Background) Name() string     { return "background" }
func (p Attribute) Name() string    { return p.Key }
func (TextWrap) Name() string       { return "wrap" }
func (ZIndex) Name() string         { return "zIndex" }
func (Size) property()              {}
func (Spacing) property()           {}
func (Offset) property()            {}
func (FlexDirection) property()     {}
func (FlexFactor) property()        {}
func (FlexWrap) property()          {}
func (Alignment) property()         {}
func (JustifyContent) property()    {}
func (Display) property()           {}
func (Position) property()          {}
func (Overflow) property()          {}
func (BorderStyle) property()       {}
func (BorderColor) property()       {}
func (Foreground) property()        {}
func (Background) property()        {}
func (Attribute) property()         {}
func (TextWrap) property()          {}
func (ZIndex) property()            {}
