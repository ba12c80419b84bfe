package terminal

import (
	"bytes"

	"github.com/lixenwraith/termflow/style"
	"github.com/lixenwraith/termflow/text"
)

// frameEncoder serializes whole frames. Each row is positioned explicitly so
// autowrap state never matters; SGR is emitted only where the style changes.
type frameEncoder struct {
	buf bytes.Buffer

	last      style.Style
	lastValid bool
}

// encode renders cells (row-major, cells[y*width+x]) and returns the bytes to
// write. The slice is reused by the next call.
func (o *frameEncoder) encode(cells []Cell, width, height int) []byte {
	o.buf.Reset()
	o.lastValid = false
	w := &o.buf

	if len(cells) < width*height {
		height = 0
		if width > 0 {
			height = len(cells) / width
		}
	}

	for y := 0; y < height; y++ {
		writeCursorPos(w, 0, y)
		row := cells[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			c := row[x]
			o.writeStyleCoalesced(w, c.Style)

			r := c.Rune
			rw := 1
			if r < 0x20 || r == 0x7f {
				r = ' '
			} else {
				rw = text.RuneWidth(r)
			}
			// Zero-width runes would shift the row; wide runes need their continuation cell
			if rw == 0 || (rw == 2 && x+1 >= width) {
				r, rw = ' ', 1
			}

			if r < 0x80 {
				w.WriteByte(byte(r))
			} else {
				w.WriteRune(r)
			}
			if rw == 2 {
				x++
			}
		}
	}

	w.Write(csiSGR0)
	w.Write(csiHome)
	o.lastValid = false
	return w.Bytes()
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (o *frameEncoder) writeStyleCoalesced(w *bytes.Buffer, s style.Style) {
	if o.lastValid && s == o.last {
		return
	}

	fgChanged := !o.lastValid || s.Fg != o.last.Fg
	bgChanged := !o.lastValid || s.Bg != o.last.Bg
	attrChanged := !o.lastValid || s.Attrs != o.last.Attrs

	w.Write(csi)
	if attrChanged {
		// Attributes can only be cleared by a reset, which also clears colors
		w.WriteByte('0')
		s.Attrs.SGR(func(code int) {
			w.WriteByte(';')
			writeInt(w, code)
		})
		if !s.Fg.IsDefault() {
			w.WriteByte(';')
			writeFg(w, s.Fg)
		}
		if !s.Bg.IsDefault() {
			w.WriteByte(';')
			writeBg(w, s.Bg)
		}
	} else {
		sep := false
		if fgChanged {
			writeFg(w, s.Fg)
			sep = true
		}
		if bgChanged {
			if sep {
				w.WriteByte(';')
			}
			writeBg(w, s.Bg)
		}
	}
	w.WriteByte('m')

	o.last = s
	o.lastValid = true
}

// writeFg writes fg color parameters (no CSI prefix, no 'm' suffix)
func writeFg(w *bytes.Buffer, c style.Color) {
	idx, ok := c.Index()
	if !ok {
		w.WriteString("39")
		return
	}
	w.WriteString("38;5;")
	writeInt(w, int(idx))
}

// writeBg writes bg color parameters (no CSI prefix, no 'm' suffix)
func writeBg(w *bytes.Buffer, c style.Color) {
	idx, ok := c.Index()
	if !ok {
		w.WriteString("49")
		return
	}
	w.WriteString("48;5;")
	writeInt(w, int(idx))
}
