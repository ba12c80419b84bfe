// Package style parses the style vocabulary of node descriptions into typed values:
// palette colors, text attributes, border glyph sets and layout properties.
package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	errs "github.com/lixenwraith/termflow/errors"
)

// Color is an xterm-256 palette entry. The zero value is the terminal default.
type Color struct {
	index uint8
	set   bool
}

// Default leaves the terminal's own color in place
var Default = Color{}

// Palette returns the palette entry i
func Palette(i uint8) Color { return Color{index: i, set: true} }

// Index returns the palette index, false for the terminal default
func (c Color) Index() (uint8, bool) { return c.index, c.set }

// IsDefault reports whether the color defers to the terminal
func (c Color) IsDefault() bool { return !c.set }

func (c Color) String() string {
	if !c.set {
		return "default"
	}
	return strconv.Itoa(int(c.index))
}

// ansiNames maps the 16 base color names to their palette slots.
// Keys are normalized: lowercase, separators removed.
var ansiNames = map[string]uint8{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
	"gray":    8,
	"grey":    8,

	"blackbright":   8,
	"redbright":     9,
	"greenbright":   10,
	"yellowbright":  11,
	"bluebright":    12,
	"magentabright": 13,
	"cyanbright":    14,
	"whitebright":   15,

	"brightblack":   8,
	"brightred":     9,
	"brightgreen":   10,
	"brightyellow":  11,
	"brightblue":    12,
	"brightmagenta": 13,
	"brightcyan":    14,
	"brightwhite":   15,
}

// ParseColor resolves a color value: a base color name ("red", "redBright", "gray"),
// a W3C color name ("orange"), "#rgb"/"#rrggbb", or a palette number 0-255.
// RGB values are mapped to the nearest palette entry.
func ParseColor(v any) (Color, error) {
	switch c := v.(type) {
	case nil:
		return Default, nil
	case Color:
		return c, nil
	case int:
		return paletteNumber(float64(c), fmt.Sprint(c))
	case int64:
		return paletteNumber(float64(c), fmt.Sprint(c))
	case float64:
		return paletteNumber(c, fmt.Sprint(c))
	case float32:
		return paletteNumber(float64(c), fmt.Sprint(c))
	case string:
		return parseColorName(c)
	default:
		return Default, errs.Invalidf(errs.ErrInvalidColor, fmt.Sprint(v), nil)
	}
}

func paletteNumber(n float64, raw string) (Color, error) {
	if n < 0 || n > 255 || n != math.Trunc(n) {
		return Default, errs.Invalidf(errs.ErrInvalidColor, raw, nil)
	}
	return Palette(uint8(n)), nil
}

func parseColorName(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.EqualFold(raw, "default") {
		return Default, nil
	}

	if strings.HasPrefix(raw, "#") {
		c, err := colorful.Hex(raw)
		if err != nil {
			return Default, errs.Invalidf(errs.ErrInvalidColor, raw, nil)
		}
		r, g, b := c.RGB255()
		return Palette(To256(r, g, b)), nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return paletteNumber(float64(n), raw)
	}

	key := normalize(raw)
	if i, ok := ansiNames[key]; ok {
		return Palette(i), nil
	}
	if tc, ok := tcell.ColorNames[key]; ok {
		r, g, b := tc.RGB()
		if r < 0 {
			return Default, nil
		}
		return Palette(To256(uint8(r), uint8(g), uint8(b))), nil
	}

	return Default, errs.Invalidf(errs.ErrInvalidColor, raw, colorCandidates())
}

func colorCandidates() []string {
	out := make([]string, 0, len(ansiNames)+len(tcell.ColorNames))
	for k := range ansiNames {
		out = append(out, k)
	}
	for k := range tcell.ColorNames {
		out = append(out, k)
	}
	return out
}

func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// cubeLevels are the channel intensities of the 6x6x6 cube (indices 16-231)
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// To256 returns the palette index nearest to an RGB color, choosing between the
// color cube and the 24-step grayscale ramp (indices 232-255)
func To256(r, g, b uint8) uint8 {
	ri, gi, bi := cubeLevel(r), cubeLevel(g), cubeLevel(b)
	cubeDist := dist(r, g, b, cubeLevels[ri], cubeLevels[gi], cubeLevels[bi])

	avg := (int(r) + int(g) + int(b)) / 3
	step := min(max((avg-8+5)/10, 0), 23)
	level := 8 + 10*step
	grayDist := dist(r, g, b, level, level, level)

	if grayDist < cubeDist {
		return uint8(232 + step)
	}
	return uint8(16 + 36*ri + 6*gi + bi)
}

func cubeLevel(v uint8) int {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	default:
		return (int(v) - 35) / 40
	}
}

func dist(r, g, b uint8, lr, lg, lb int) int {
	dr, dg, db := int(r)-lr, int(g)-lg, int(b)-lb
	return dr*dr + dg*dg + db*db
}
