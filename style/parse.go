package style

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/layout"
)

type parser func(key string, v any) (Property, error)

// parsers maps every recognized style key to its parser. A nil value restores the default.
var parsers = map[string]parser{
	"width":     sizeParser(AxisWidth),
	"height":    sizeParser(AxisHeight),
	"minWidth":  sizeParser(AxisMinWidth),
	"minHeight": sizeParser(AxisMinHeight),
	"maxWidth":  sizeParser(AxisMaxWidth),
	"maxHeight": sizeParser(AxisMaxHeight),

	"margin":       spacingParser(false, layout.EdgeAll),
	"marginX":      spacingParser(false, layout.EdgeHorizontal),
	"marginY":      spacingParser(false, layout.EdgeVertical),
	"marginTop":    spacingParser(false, layout.EdgeTop),
	"marginRight":  spacingParser(false, layout.EdgeRight),
	"marginBottom": spacingParser(false, layout.EdgeBottom),
	"marginLeft":   spacingParser(false, layout.EdgeLeft),

	"padding":       spacingParser(true, layout.EdgeAll),
	"paddingX":      spacingParser(true, layout.EdgeHorizontal),
	"paddingY":      spacingParser(true, layout.EdgeVertical),
	"paddingTop":    spacingParser(true, layout.EdgeTop),
	"paddingRight":  spacingParser(true, layout.EdgeRight),
	"paddingBottom": spacingParser(true, layout.EdgeBottom),
	"paddingLeft":   spacingParser(true, layout.EdgeLeft),

	"top":    offsetParser(layout.EdgeTop),
	"left":   offsetParser(layout.EdgeLeft),
	"right":  offsetParser(layout.EdgeRight),
	"bottom": offsetParser(layout.EdgeBottom),

	"flexDirection": func(key string, v any) (Property, error) {
		d, err := parseEnum(key, v, directions, layout.Column)
		return FlexDirection{Value: d}, err
	},
	"flexGrow":   factorParser(false),
	"flexShrink": factorParser(true),
	"flexWrap": func(key string, v any) (Property, error) {
		w, err := parseEnum(key, v, wraps, layout.NoWrap)
		return FlexWrap{Value: w}, err
	},
	"alignItems":   alignParser(layout.AlignStretch),
	"alignSelf":    alignParser(layout.AlignAuto),
	"alignContent": alignParser(layout.AlignFlexStart),
	"justifyContent": func(key string, v any) (Property, error) {
		j, err := parseEnum(key, v, justifies, layout.JustifyFlexStart)
		return JustifyContent{Value: j}, err
	},
	"display": func(key string, v any) (Property, error) {
		d, err := parseEnum(key, v, displays, layout.DisplayFlex)
		return Display{Value: d}, err
	},
	"position": func(key string, v any) (Property, error) {
		p, err := parseEnum(key, v, positions, layout.Relative)
		return Position{Value: p}, err
	},
	"overflow": func(key string, v any) (Property, error) {
		o, err := parseEnum(key, v, overflows, layout.OverflowVisible)
		return Overflow{Value: o}, err
	},

	"border": func(key string, v any) (Property, error) {
		b, err := ParseBorder(v)
		return BorderStyle{Value: b}, wrapParse(err, key)
	},
	"borderColor": func(key string, v any) (Property, error) {
		c, err := ParseColor(v)
		return BorderColor{Value: c}, wrapParse(err, key)
	},
	"color": func(key string, v any) (Property, error) {
		c, err := ParseColor(v)
		return Foreground{Value: c}, wrapParse(err, key)
	},
	"background": func(key string, v any) (Property, error) {
		c, err := ParseColor(v)
		return Background{Value: c}, wrapParse(err, key)
	},

	"bold":          attrParser(AttrBold),
	"dim":           attrParser(AttrDim),
	"italic":        attrParser(AttrItalic),
	"underline":     attrParser(AttrUnderline),
	"inverse":       attrParser(AttrInverse),
	"strikethrough": attrParser(AttrStrikethrough),

	"wrap": func(key string, v any) (Property, error) {
		if v == nil {
			return TextWrap{Value: true}, nil
		}
		b, err := parseBool(key, v)
		return TextWrap{Value: b}, err
	},
	"zIndex": func(key string, v any) (Property, error) {
		if v == nil {
			return ZIndex{Unset: true}, nil
		}
		n, err := parseNumber(key, v)
		if err != nil {
			return ZIndex{Unset: true}, err
		}
		if n != math.Trunc(n) {
			return ZIndex{Unset: true}, invalid(key, v)
		}
		return ZIndex{Value: int(n)}, nil
	},
}

// Parse converts one style declaration into its typed property.
// A nil value yields the property's default.
func Parse(key string, v any) (Property, error) {
	p, ok := parsers[key]
	if !ok {
		return nil, errs.WrapInvalid(errs.Invalidf(errs.ErrUnknownProperty, key, Keys()), "style", "Parse", "resolve key")
	}
	prop, err := p(key, v)
	if err != nil {
		return nil, err
	}
	return prop, nil
}

// Known reports whether key is a recognized style key
func Known(key string) bool {
	_, ok := parsers[key]
	return ok
}

// Keys returns every recognized style key, sorted
func Keys() []string {
	out := make([]string, 0, len(parsers))
	for k := range parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseBorder resolves a border style name. true selects single lines, false none.
func ParseBorder(v any) (Border, error) {
	switch b := v.(type) {
	case nil:
		return BorderNone, nil
	case Border:
		return b, nil
	case bool:
		if b {
			return BorderSingle, nil
		}
		return BorderNone, nil
	case string:
		if border, ok := borderNames[normalize(b)]; ok {
			return border, nil
		}
		return BorderNone, errs.Invalidf(errs.ErrUnknownBorder, b, mapKeys(borderNames))
	default:
		return BorderNone, errs.Invalidf(errs.ErrUnknownBorder, fmt.Sprint(v), nil)
	}
}

// ParseDimension resolves "auto", "N%", or a cell count
func ParseDimension(v any) (layout.Dimension, error) {
	switch d := v.(type) {
	case nil:
		return layout.Auto, nil
	case layout.Dimension:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		if strings.EqualFold(s, "auto") {
			return layout.Auto, nil
		}
		if pct, ok := strings.CutSuffix(s, "%"); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(pct), 32)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return layout.Auto, errs.Invalidf(errs.ErrInvalidProperty, d, nil)
			}
			return layout.Percent(float32(f)), nil
		}
		f, err := strconv.ParseFloat(s, 32)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return layout.Auto, errs.Invalidf(errs.ErrInvalidProperty, d, nil)
		}
		return layout.Cells(float32(f)), nil
	default:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return layout.Auto, errs.Invalidf(errs.ErrInvalidProperty, fmt.Sprint(v), nil)
		}
		return layout.Cells(float32(f)), nil
	}
}

func sizeParser(axis SizeAxis) parser {
	return func(key string, v any) (Property, error) {
		d, err := ParseDimension(v)
		return Size{Key: key, Axis: axis, Value: d}, wrapParse(err, key)
	}
}

func spacingParser(padding bool, edge layout.Edge) parser {
	return func(key string, v any) (Property, error) {
		if v == nil {
			return Spacing{Key: key, Padding: padding, Edge: edge, Value: layout.Cells(0)}, nil
		}
		d, err := ParseDimension(v)
		if err == nil && d.Unit == layout.UnitAuto && padding {
			err = errs.Invalidf(errs.ErrInvalidProperty, fmt.Sprint(v), nil)
		}
		return Spacing{Key: key, Padding: padding, Edge: edge, Value: d}, wrapParse(err, key)
	}
}

func offsetParser(edge layout.Edge) parser {
	return func(key string, v any) (Property, error) {
		d, err := ParseDimension(v)
		return Offset{Key: key, Edge: edge, Value: d}, wrapParse(err, key)
	}
}

func factorParser(shrink bool) parser {
	return func(key string, v any) (Property, error) {
		if v == nil {
			return FlexFactor{Key: key, Shrink: shrink}, nil
		}
		n, err := parseNumber(key, v)
		if err == nil && n < 0 {
			err = invalid(key, v)
		}
		return FlexFactor{Key: key, Shrink: shrink, Value: float32(n)}, err
	}
}

func alignParser(def layout.Align) parser {
	return func(key string, v any) (Property, error) {
		a, err := parseEnum(key, v, aligns, def)
		return Alignment{Key: key, Value: a}, err
	}
}

func attrParser(a Attr) parser {
	return func(key string, v any) (Property, error) {
		if v == nil {
			return Attribute{Key: key, Attr: a, Unset: true}, nil
		}
		on, err := parseBool(key, v)
		return Attribute{Key: key, Attr: a, On: on}, err
	}
}

var directions = map[string]layout.Direction{
	"column":        layout.Column,
	"columnreverse": layout.ColumnReverse,
	"row":           layout.Row,
	"rowreverse":    layout.RowReverse,
}

var justifies = map[string]layout.Justify{
	"flexstart":    layout.JustifyFlexStart,
	"start":        layout.JustifyFlexStart,
	"center":       layout.JustifyCenter,
	"flexend":      layout.JustifyFlexEnd,
	"end":          layout.JustifyFlexEnd,
	"spacebetween": layout.JustifySpaceBetween,
	"spacearound":  layout.JustifySpaceAround,
}

var aligns = map[string]layout.Align{
	"auto":         layout.AlignAuto,
	"flexstart":    layout.AlignFlexStart,
	"start":        layout.AlignFlexStart,
	"center":       layout.AlignCenter,
	"flexend":      layout.AlignFlexEnd,
	"end":          layout.AlignFlexEnd,
	"stretch":      layout.AlignStretch,
	"baseline":     layout.AlignBaseline,
	"spacebetween": layout.AlignSpaceBetween,
	"spacearound":  layout.AlignSpaceAround,
}

var wraps = map[string]layout.Wrap{
	"nowrap":      layout.NoWrap,
	"wrap":        layout.WrapLines,
	"wrapreverse": layout.WrapReverse,
}

var displays = map[string]layout.Display{
	"flex": layout.DisplayFlex,
	"none": layout.DisplayNone,
}

var positions = map[string]layout.PositionType{
	"relative": layout.Relative,
	"absolute": layout.Absolute,
}

var overflows = map[string]layout.Overflow{
	"visible": layout.OverflowVisible,
	"hidden":  layout.OverflowHidden,
	"scroll":  layout.OverflowScroll,
}

func parseEnum[E any](key string, v any, table map[string]E, def E) (E, error) {
	if v == nil {
		return def, nil
	}
	if e, ok := v.(E); ok {
		return e, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, invalid(key, v)
	}
	if e, ok := table[normalize(s)]; ok {
		return e, nil
	}
	return def, errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidProperty, s, mapKeys(table)), "style", "Parse", "parse "+key)
}

func parseBool(key string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, invalid(key, v)
		}
		return parsed, nil
	default:
		return false, invalid(key, v)
	}
}

func parseNumber(key string, v any) (float64, error) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, invalid(key, v)
		}
		return f, nil
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid(key, v)
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func invalid(key string, v any) error {
	return errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidProperty, fmt.Sprint(v), nil), "style", "Parse", "parse "+key)
}

func wrapParse(err error, key string) error {
	return errs.WrapInvalid(err, "style", "Parse", "parse "+key)
}

func mapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
