package terminal

// Decoder turns raw terminal input bytes into key events. Partial escape
// sequences and UTF-8 runes split across reads are held until the next Feed.
// A lone ESC stays pending until Flush, which callers invoke once the escape
// timeout passes without further input.
type Decoder struct {
	buf []byte
}

// Feed appends data and returns every event that can be decoded so far
func (d *Decoder) Feed(data []byte) []KeyEvent {
	d.buf = append(d.buf, data...)
	events, consumed := parseInput(d.buf, nil)
	d.compact(consumed)
	return events
}

// Pending reports whether undecoded bytes are buffered
func (d *Decoder) Pending() bool {
	return len(d.buf) > 0
}

// Flush resolves buffered bytes that are not waiting on a longer sequence:
// a lone ESC becomes an escape key and truncated sequences are discarded.
func (d *Decoder) Flush() []KeyEvent {
	if len(d.buf) == 0 {
		return nil
	}
	var events []KeyEvent
	if d.buf[0] == 0x1b {
		events = append(events, newKeyEvent(KeyEscape, 0, ModNone))
		rest, _ := parseInput(d.buf[1:], nil)
		events = append(events, rest...)
	}
	d.buf = d.buf[:0]
	return events
}

func (d *Decoder) compact(consumed int) {
	if consumed <= 0 {
		return
	}
	if consumed >= len(d.buf) {
		d.buf = d.buf[:0]
		return
	}
	n := copy(d.buf, d.buf[consumed:])
	d.buf = d.buf[:n]
}

// parseInput decodes as many events as possible, stopping on an incomplete sequence
func parseInput(data []byte, events []KeyEvent) ([]KeyEvent, int) {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			events = append(events, newKeyEvent(KeyRune, rune(b), ModNone))
			i++
			continue
		}

		if b == 0x1b {
			// Need at least 2 bytes to determine sequence type
			if i+1 >= n {
				return events, i
			}
			consumed, ev := parseEscape(data[i:])
			if consumed == 0 {
				return events, i
			}
			// Swallowed unknown sequences decode to KeyNone
			if ev.Key != KeyNone {
				events = append(events, ev)
			}
			i += consumed
			continue
		}

		if b < 0x20 {
			events = append(events, parseControl(b))
			i++
			continue
		}

		// DEL
		if b == 0x7f {
			events = append(events, newKeyEvent(KeyBackspace, 0, ModNone))
			i++
			continue
		}

		// UTF-8 multibyte
		seqLen := utf8SeqLen(b)
		if seqLen == 0 {
			i++
			continue
		}
		if i+seqLen > n {
			return events, i
		}
		r, size := decodeRune(data[i:])
		events = append(events, newKeyEvent(KeyRune, r, ModNone))
		i += size
	}
	return events, i
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	}
	return 0
}

// parseEscape parses a sequence starting with ESC, returns 0 on incomplete
func parseEscape(data []byte) (int, KeyEvent) {
	if len(data) < 2 {
		return 0, KeyEvent{}
	}

	switch {
	case data[1] == 0x1b:
		// ESC ESC -> Alt+Escape
		return 2, newKeyEvent(KeyEscape, 0, ModAlt)
	case data[1] == '[':
		return parseCSI(data)
	case data[1] == 'O':
		return parseSS3(data)
	case data[1] < 0x20:
		ev := parseControl(data[1])
		ev.Mod |= ModAlt
		return 2, ev
	case data[1] < 0x7f:
		return 2, newKeyEvent(KeyRune, rune(data[1]), ModAlt)
	}
	// ESC followed by a non-ASCII byte: report the escape, leave the byte
	return 1, newKeyEvent(KeyEscape, 0, ModNone)
}

// parseCSI parses ESC [ params final
func parseCSI(data []byte) (int, KeyEvent) {
	const maxScan = 16
	if len(data) < 3 {
		return 0, KeyEvent{}
	}

	// Linux console F1-F5: ESC [ [ A..E
	if data[2] == '[' {
		if len(data) < 4 {
			return 0, KeyEvent{}
		}
		if key, mod, ok := lookupCSI(data[2:4]); ok {
			return 4, newKeyEvent(key, 0, mod)
		}
		return 4, KeyEvent{}
	}

	end := 2
	for end < len(data) && end < maxScan {
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			if key, mod, ok := lookupCSI(data[2 : end+1]); ok {
				return end + 1, newKeyEvent(key, 0, mod)
			}
			// Unknown but valid CSI syntax: consume silently
			return end + 1, KeyEvent{}
		}
		if b < 0x20 || b > 0x7e {
			// Malformed: drop the introducer and resume at this byte
			return end, KeyEvent{}
		}
		end++
	}
	if end >= maxScan {
		return end, KeyEvent{}
	}
	return 0, KeyEvent{}
}

// parseSS3 parses ESC O final, consuming unknown finals
func parseSS3(data []byte) (int, KeyEvent) {
	if len(data) < 3 {
		return 0, KeyEvent{}
	}
	if key, mod, ok := lookupSS3(data[2:3]); ok {
		return 3, newKeyEvent(key, 0, mod)
	}
	return 3, KeyEvent{}
}

// parseControl maps control characters to keys
func parseControl(b byte) KeyEvent {
	switch b {
	case 0x00:
		return newKeyEvent(KeyCtrlSpace, 0, ModNone)
	case 0x08:
		return newKeyEvent(KeyBackspace, 0, ModNone)
	case 0x09:
		return newKeyEvent(KeyTab, 0, ModNone)
	case 0x0a, 0x0d:
		return newKeyEvent(KeyEnter, 0, ModNone)
	case 0x1b:
		return newKeyEvent(KeyEscape, 0, ModNone)
	case 0x1c:
		return newKeyEvent(KeyCtrlBackslash, 0, ModNone)
	case 0x1d:
		return newKeyEvent(KeyCtrlBracketRight, 0, ModNone)
	case 0x1e:
		return newKeyEvent(KeyCtrlCaret, 0, ModNone)
	case 0x1f:
		return newKeyEvent(KeyCtrlUnderscore, 0, ModNone)
	}
	if b >= 0x01 && b <= 0x1a {
		return newKeyEvent(KeyCtrlA+Key(b-0x01), 0, ModNone)
	}
	return KeyEvent{}
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var (
		size int
		min  rune
		r    rune
	)
	switch {
	case b&0xe0 == 0xc0:
		size, min, r = 2, 0x80, rune(b&0x1f)
	case b&0xf0 == 0xe0:
		size, min, r = 3, 0x800, rune(b&0x0f)
	case b&0xf8 == 0xf0:
		size, min, r = 4, 0x10000, rune(b&0x07)
	default:
		return 0xFFFD, 1
	}

	if len(data) < size {
		return 0xFFFD, 1
	}
	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}
	if r < min {
		return 0xFFFD, 1 // Overlong encoding
	}
	return r, size
}
