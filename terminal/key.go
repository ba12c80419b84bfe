package terminal

import (
	"strconv"
	"strings"
)

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check KeyEvent.Rune)

	// Control keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab // Shift+Tab
	KeyBackspace
	KeyDelete
	KeySpace

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Ctrl+letter (Ctrl+A = 0x01, Ctrl+Z = 0x1A)
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH // Often same as Backspace
	KeyCtrlI // Often same as Tab
	KeyCtrlJ // Often same as Enter
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM // Often same as Enter
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// Ctrl+special
	KeyCtrlSpace
	KeyCtrlBackslash
	KeyCtrlBracketLeft
	KeyCtrlBracketRight
	KeyCtrlCaret
	KeyCtrlUnderscore
)

// Modifier flags, bit-compatible with xterm's modifier parameter minus one
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// String renders the modifiers as a "ctrl+alt+shift+" prefix
func (m Modifier) String() string {
	var sb strings.Builder
	if m&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if m&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if m&ModShift != 0 {
		sb.WriteString("shift+")
	}
	return sb.String()
}

// KeyEvent is one decoded keypress.
// Name is "a".."z" for letters (shift in Mod for capitals, ctrl in Mod for control
// letters), "return" for Enter, the canonical key name for other special keys, and
// the character itself for remaining printable runes.
type KeyEvent struct {
	Name string
	Key  Key
	Rune rune
	Mod  Modifier
}

// Ctrl reports whether control was held
func (e KeyEvent) Ctrl() bool { return e.Mod&ModCtrl != 0 }

// Alt reports whether alt/meta was held
func (e KeyEvent) Alt() bool { return e.Mod&ModAlt != 0 }

// Shift reports whether shift was held
func (e KeyEvent) Shift() bool { return e.Mod&ModShift != 0 }

// String renders the event as "ctrl+c", "shift+a", "return"
func (e KeyEvent) String() string {
	return e.Mod.String() + e.Name
}

// Is reports whether the event matches a combination such as "ctrl+c",
// "shift+tab" or "Enter". Modifier order, case of names and common aliases
// do not matter.
func (e KeyEvent) Is(combo string) bool {
	return e.String() == canonicalCombo(combo)
}

// newKeyEvent fills Name from key, rune and modifiers
func newKeyEvent(key Key, r rune, mod Modifier) KeyEvent {
	ev := KeyEvent{Key: key, Rune: r, Mod: mod}
	switch {
	case key == KeyRune && r == ' ':
		ev.Key = KeySpace
		ev.Name = keyNames[KeySpace]
	case key == KeyRune && r >= 'A' && r <= 'Z':
		ev.Name = string(r + 'a' - 'A')
		ev.Mod |= ModShift
	case key == KeyRune:
		ev.Name = string(r)
	case key >= KeyCtrlA && key <= KeyCtrlZ:
		ev.Name = string(rune('a' + key - KeyCtrlA))
		ev.Mod |= ModCtrl
	case ctrlNames[key] != "":
		ev.Name = ctrlNames[key]
		ev.Mod |= ModCtrl
	case key == KeyBacktab:
		ev.Name = keyNames[KeyTab]
		ev.Mod |= ModShift
	default:
		ev.Name = keyNames[key]
	}
	return ev
}

// escapeSequence maps an escape sequence body to a key
type escapeSequence struct {
	seq string
	key Key
	mod Modifier
}

// Unmodified CSI sequences (body after ESC [)
var csiBase = []escapeSequence{
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"Z", KeyBacktab, ModNone},

	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"1~", KeyHome, ModNone},
	{"4~", KeyEnd, ModNone},
	{"5~", KeyPageUp, ModNone},
	{"6~", KeyPageDown, ModNone},
	{"2~", KeyInsert, ModNone},
	{"3~", KeyDelete, ModNone},
	{"7~", KeyHome, ModNone},
	{"8~", KeyEnd, ModNone},

	// Function keys (xterm)
	{"11~", KeyF1, ModNone},
	{"12~", KeyF2, ModNone},
	{"13~", KeyF3, ModNone},
	{"14~", KeyF4, ModNone},
	{"15~", KeyF5, ModNone},
	{"17~", KeyF6, ModNone},
	{"18~", KeyF7, ModNone},
	{"19~", KeyF8, ModNone},
	{"20~", KeyF9, ModNone},
	{"21~", KeyF10, ModNone},
	{"23~", KeyF11, ModNone},
	{"24~", KeyF12, ModNone},

	// Function keys (linux console)
	{"[A", KeyF1, ModNone},
	{"[B", KeyF2, ModNone},
	{"[C", KeyF3, ModNone},
	{"[D", KeyF4, ModNone},
	{"[E", KeyF5, ModNone},
}

// Final bytes that take the "1;mod X" form when modified
var csiLetterKeys = []escapeSequence{
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"P", KeyF1, ModNone},
	{"Q", KeyF2, ModNone},
	{"R", KeyF3, ModNone},
	{"S", KeyF4, ModNone},
}

// Numbers that take the "N;mod ~" form when modified
var csiTildeKeys = []struct {
	num int
	key Key
}{
	{2, KeyInsert}, {3, KeyDelete}, {5, KeyPageUp}, {6, KeyPageDown},
	{15, KeyF5}, {17, KeyF6}, {18, KeyF7}, {19, KeyF8},
	{20, KeyF9}, {21, KeyF10}, {23, KeyF11}, {24, KeyF12},
}

// SS3 sequences (ESC O ...)
var ss3Sequences = []escapeSequence{
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"P", KeyF1, ModNone},
	{"Q", KeyF2, ModNone},
	{"R", KeyF3, ModNone},
	{"S", KeyF4, ModNone},
}

var (
	csiMap map[string]escapeSequence
	ss3Map map[string]escapeSequence
)

// init builds the lookup maps, expanding xterm modifier parameters 2..8
func init() {
	csiMap = make(map[string]escapeSequence, len(csiBase)+7*(len(csiLetterKeys)+len(csiTildeKeys)))
	for _, s := range csiBase {
		csiMap[s.seq] = s
	}
	for param := 2; param <= 8; param++ {
		mod := Modifier(param - 1)
		p := strconv.Itoa(param)
		for _, s := range csiLetterKeys {
			seq := "1;" + p + s.seq
			csiMap[seq] = escapeSequence{seq, s.key, mod}
		}
		for _, s := range csiTildeKeys {
			seq := strconv.Itoa(s.num) + ";" + p + "~"
			csiMap[seq] = escapeSequence{seq, s.key, mod}
		}
	}

	ss3Map = make(map[string]escapeSequence, len(ss3Sequences))
	for _, s := range ss3Sequences {
		ss3Map[s.seq] = s
	}
}

// lookupCSI finds key for CSI sequence body
func lookupCSI(seq []byte) (Key, Modifier, bool) {
	if s, ok := csiMap[string(seq)]; ok {
		return s.key, s.mod, true
	}
	return KeyNone, ModNone, false
}

// lookupSS3 finds key for SS3 sequence body
func lookupSS3(seq []byte) (Key, Modifier, bool) {
	if s, ok := ss3Map[string(seq)]; ok {
		return s.key, s.mod, true
	}
	return KeyNone, ModNone, false
}
