// Package text measures and wraps strings in terminal cells
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cond measures ambiguous-width runes (box drawing, some symbols) as one cell
// regardless of the locale
var cond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Width returns the display width of s in cells
func Width(s string) int {
	return cond.StringWidth(s)
}

// RuneWidth returns the display width of r, zero for combining marks
func RuneWidth(r rune) int {
	return cond.RuneWidth(r)
}

// Lines splits s at explicit newlines
func Lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// Wrap breaks s into lines no wider than width cells.
// Explicit newlines are kept. Lines break at the last space when one exists,
// otherwise mid-word. A non-positive width returns the explicit lines unchanged.
func Wrap(s string, width int) []string {
	paragraphs := Lines(s)
	if width <= 0 {
		return paragraphs
	}
	var out []string
	for _, p := range paragraphs {
		out = append(out, wrapLine(p, width)...)
	}
	return out
}

func wrapLine(s string, width int) []string {
	if s == "" {
		return []string{""}
	}

	var lines []string
	var cur []rune
	curWidth := 0
	lastSpace := -1 // index into cur

	flush := func(rs []rune) {
		lines = append(lines, strings.TrimRight(string(rs), " "))
	}

	for _, r := range s {
		rw := cond.RuneWidth(r)
		if curWidth+rw > width && len(cur) > 0 {
			switch {
			case r == ' ':
				flush(cur)
				cur, curWidth = nil, 0
			case lastSpace >= 0:
				flush(cur[:lastSpace])
				cur = append([]rune(nil), cur[lastSpace+1:]...)
				curWidth = cond.StringWidth(string(cur))
			default:
				flush(cur)
				cur, curWidth = nil, 0
			}
			lastSpace = -1
			// The carried word may still leave no room for r
			if curWidth+rw > width && len(cur) > 0 {
				flush(cur)
				cur, curWidth = nil, 0
			}
		}
		// Wrapped lines do not start with the space that caused the break
		if r == ' ' && len(cur) == 0 && len(lines) > 0 {
			continue
		}
		if r == ' ' {
			lastSpace = len(cur)
		}
		cur = append(cur, r)
		curWidth += rw
	}
	lines = append(lines, string(cur))
	return lines
}

// Measure returns the cell size of s laid out within maxWidth.
// A negative maxWidth means unbounded. Wrapping only applies when wrap is set.
func Measure(s string, maxWidth int, wrap bool) (width, height int) {
	var lines []string
	if wrap && maxWidth >= 0 {
		lines = Wrap(s, max(maxWidth, 1))
	} else {
		lines = Lines(s)
	}
	for _, l := range lines {
		width = max(width, Width(l))
	}
	return width, len(lines)
}

// Truncate cuts s to at most width cells
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if Width(s) <= width {
		return s
	}
	return cond.Truncate(s, width, "")
}
