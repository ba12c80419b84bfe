package render

import (
	"strings"

	"github.com/lixenwraith/termflow/layout"
	"github.com/lixenwraith/termflow/style"
	"github.com/lixenwraith/termflow/terminal"
	"github.com/lixenwraith/termflow/text"
)

// Cell is one styled character of the screen
type Cell = terminal.Cell

// Buffer is a screen-sized grid of terminal cells.
// Uses []terminal.Cell directly so a frame flushes without copying.
type Buffer struct {
	cells  []terminal.Cell
	width  int
	height int
}

// NewBuffer creates a blank buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions and blanks it, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = terminal.Cell{Rune: ' '}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Size returns the buffer dimensions
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Bounds returns the buffer as a rect at the origin
func (b *Buffer) Bounds() layout.Rect {
	return layout.Rect{Width: b.width, Height: b.height}
}

// Cells returns the row-major backing slice
func (b *Buffer) Cells() []terminal.Cell {
	return b.cells
}

// Cell returns the cell at x, y; out-of-bounds reads return a zero cell
func (b *Buffer) Cell(x, y int) terminal.Cell {
	if !b.inBounds(x, y) {
		return terminal.Cell{}
	}
	return b.cells[y*b.width+x]
}

// inBounds returns true if in screen bounds
func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes one rune if x, y lies inside clip and the screen. A double-width
// rune also claims the next cell; it is dropped when that cell is clipped.
func (b *Buffer) Set(x, y int, r rune, s style.Style, clip layout.Rect) {
	if !clip.Contains(x, y) || !b.inBounds(x, y) {
		return
	}
	if text.RuneWidth(r) == 2 {
		if !clip.Contains(x+1, y) || !b.inBounds(x+1, y) {
			r = ' '
		} else {
			b.cells[y*b.width+x+1] = terminal.Cell{Rune: 0, Style: s}
		}
	}
	b.cells[y*b.width+x] = terminal.Cell{Rune: r, Style: s}
}

// Fill paints rect with blanks in style s, limited to clip
func (b *Buffer) Fill(rect layout.Rect, s style.Style, clip layout.Rect) {
	area := rect.Intersect(clip).Intersect(b.Bounds())
	for y := area.Top; y < area.Bottom(); y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := area.Left; x < area.Right(); x++ {
			row[x] = terminal.Cell{Rune: ' ', Style: s}
		}
	}
}

// WriteString writes s starting at x, y, advancing by rune width, and returns
// the column after the last rune
func (b *Buffer) WriteString(x, y int, s string, st style.Style, clip layout.Rect) int {
	for _, r := range s {
		w := text.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.Set(x, y, r, st, clip)
		x += w
	}
	return x
}

// Lines returns each row as plain text. The cell covered by a double-width
// rune contributes nothing.
func (b *Buffer) Lines() []string {
	lines := make([]string, b.height)
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		sb.Reset()
		row := b.cells[y*b.width : (y+1)*b.width]
		for x := 0; x < len(row); x++ {
			r := row[x].Rune
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
			if text.RuneWidth(r) == 2 {
				x++
			}
		}
		lines[y] = sb.String()
	}
	return lines
}

// Snapshot returns the buffer as newline-separated rows
func (b *Buffer) Snapshot() string {
	return strings.Join(b.Lines(), "\n")
}
