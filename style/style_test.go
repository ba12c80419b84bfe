package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/layout"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Color
	}{
		{"nil", nil, Default},
		{"default", "default", Default},
		{"base name", "red", Palette(1)},
		{"bright chalk style", "redBright", Palette(9)},
		{"bright prefix", "bright-blue", Palette(12)},
		{"gray", "gray", Palette(8)},
		{"grey", "Grey", Palette(8)},
		{"hex", "#ff0000", Palette(196)},
		{"short hex", "#f00", Palette(196)},
		{"w3c name", "orange", Palette(214)},
		{"number", 42, Palette(42)},
		{"float number", 42.0, Palette(42)},
		{"numeric string", "200", Palette(200)},
		{"color passthrough", Palette(7), Palette(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	_, err := ParseColor("gren")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidColor)
	assert.Contains(t, err.Error(), `did you mean "green"?`)

	for _, in := range []any{"#zzzzzz", 256, -1, 1.5, true} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, errs.ErrInvalidColor, "%v", in)
	}
}

func TestTo256(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 16},
		{255, 255, 255, 231},
		{255, 0, 0, 196},
		{0, 255, 0, 46},
		{0, 0, 255, 21},
		{128, 128, 128, 244},
		{95, 135, 175, 67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, To256(tt.r, tt.g, tt.b), "rgb(%d,%d,%d)", tt.r, tt.g, tt.b)
	}
}

func TestStyleApply(t *testing.T) {
	base := Style{Fg: Palette(1), Bg: Palette(4), Attrs: AttrBold | AttrUnderline}

	var p Patch
	p.Fg = Palette(2)
	p.SetAttr(AttrBold, false)
	p.SetAttr(AttrItalic, true)

	got := base.Apply(p)
	assert.Equal(t, Palette(2), got.Fg)
	assert.Equal(t, Palette(4), got.Bg)
	assert.Equal(t, AttrUnderline|AttrItalic, got.Attrs)

	p.ClearAttr(AttrBold)
	assert.Equal(t, AttrBold|AttrUnderline|AttrItalic, base.Apply(p).Attrs)
}

func TestAttrSGR(t *testing.T) {
	var codes []int
	(AttrBold | AttrInverse | AttrStrikethrough).SGR(func(c int) { codes = append(codes, c) })
	assert.Equal(t, []int{1, 7, 9}, codes)
}

func TestBorderGlyphs(t *testing.T) {
	g := BorderSingle.Glyphs()
	assert.Equal(t, "┌─┐│└┘", string([]rune{g.TopLeft, g.Horizontal, g.TopRight, g.Vertical, g.BottomLeft, g.BottomRight}))
	assert.Equal(t, '╭', BorderRounded.Glyphs().TopLeft)
	assert.Equal(t, '┌', Border(99).Glyphs().TopLeft)
	assert.False(t, BorderNone.Visible())

	b, err := ParseBorder("double")
	require.NoError(t, err)
	assert.Equal(t, BorderDouble, b)

	b, err = ParseBorder(true)
	require.NoError(t, err)
	assert.Equal(t, BorderSingle, b)

	_, err = ParseBorder("dobule")
	assert.ErrorIs(t, err, errs.ErrUnknownBorder)
	assert.Contains(t, err.Error(), `did you mean "double"?`)
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   any
		want layout.Dimension
	}{
		{nil, layout.Auto},
		{"auto", layout.Auto},
		{"50%", layout.Percent(50)},
		{"12", layout.Cells(12)},
		{10, layout.Cells(10)},
		{2.5, layout.Cells(2.5)},
	}
	for _, tt := range tests {
		got, err := ParseDimension(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}

	for _, in := range []any{"wide", "x%", true} {
		_, err := ParseDimension(in)
		assert.ErrorIs(t, err, errs.ErrInvalidProperty, "%v", in)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		key  string
		in   any
		want Property
	}{
		{"width", "auto", Size{Key: "width", Axis: AxisWidth, Value: layout.Auto}},
		{"minHeight", 3, Size{Key: "minHeight", Axis: AxisMinHeight, Value: layout.Cells(3)}},
		{"marginX", 2, Spacing{Key: "marginX", Edge: layout.EdgeHorizontal, Value: layout.Cells(2)}},
		{"paddingTop", nil, Spacing{Key: "paddingTop", Padding: true, Edge: layout.EdgeTop, Value: layout.Cells(0)}},
		{"left", "50%", Offset{Key: "left", Edge: layout.EdgeLeft, Value: layout.Percent(50)}},
		{"flexDirection", "row-reverse", FlexDirection{Value: layout.RowReverse}},
		{"flexGrow", 1, FlexFactor{Key: "flexGrow", Value: 1}},
		{"flexShrink", "0.5", FlexFactor{Key: "flexShrink", Shrink: true, Value: 0.5}},
		{"flexWrap", "wrap", FlexWrap{Value: layout.WrapLines}},
		{"alignItems", "center", Alignment{Key: "alignItems", Value: layout.AlignCenter}},
		{"alignSelf", nil, Alignment{Key: "alignSelf", Value: layout.AlignAuto}},
		{"justifyContent", "space-between", JustifyContent{Value: layout.JustifySpaceBetween}},
		{"display", "none", Display{Value: layout.DisplayNone}},
		{"position", "absolute", Position{Value: layout.Absolute}},
		{"overflow", "hidden", Overflow{Value: layout.OverflowHidden}},
		{"border", "rounded", BorderStyle{Value: BorderRounded}},
		{"borderColor", "cyan", BorderColor{Value: Palette(6)}},
		{"color", "green", Foreground{Value: Palette(2)}},
		{"background", "#000000", Background{Value: Palette(16)}},
		{"bold", true, Attribute{Key: "bold", Attr: AttrBold, On: true}},
		{"strikethrough", "false", Attribute{Key: "strikethrough", Attr: AttrStrikethrough}},
		{"underline", nil, Attribute{Key: "underline", Attr: AttrUnderline, Unset: true}},
		{"wrap", false, TextWrap{Value: false}},
		{"wrap", nil, TextWrap{Value: true}},
		{"zIndex", 0, ZIndex{Value: 0}},
		{"zIndex", nil, ZIndex{Unset: true}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := Parse(tt.key, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.key, got.Name())
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("colour", "red")
	assert.ErrorIs(t, err, errs.ErrUnknownProperty)
	assert.Contains(t, err.Error(), `did you mean "color"?`)
	assert.True(t, errs.IsInvalid(err))

	_, err = Parse("justifyContent", "centre")
	assert.ErrorIs(t, err, errs.ErrInvalidProperty)
	assert.Contains(t, err.Error(), "parse justifyContent failed")

	_, err = Parse("flexGrow", -1)
	assert.ErrorIs(t, err, errs.ErrInvalidProperty)

	_, err = Parse("zIndex", 1.5)
	assert.ErrorIs(t, err, errs.ErrInvalidProperty)

	_, err = Parse("padding", "auto")
	assert.ErrorIs(t, err, errs.ErrInvalidProperty)

	_, err = Parse("bold", 3)
	assert.ErrorIs(t, err, errs.ErrInvalidProperty)

	assert.True(t, Known("zIndex"))
	assert.False(t, Known("zindex"))
}
