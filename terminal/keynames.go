package terminal

import "strings"

// keyNames holds the event name of every special key. Control letters and
// Ctrl+punctuation are not listed: their events carry the character as Name
// with ModCtrl set, so ctrl+c reads the same whether typed as 0x03 or as a
// CSI-u sequence.
var keyNames = map[Key]string{
	KeyEscape:    "escape",
	KeyEnter:     "return",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeySpace:     "space",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "pageup",
	KeyPageDown: "pagedown",
	KeyInsert:   "insert",

	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4",
	KeyF5: "f5", KeyF6: "f6", KeyF7: "f7", KeyF8: "f8",
	KeyF9: "f9", KeyF10: "f10", KeyF11: "f11", KeyF12: "f12",
}

// ctrlNames names the Ctrl+punctuation keys by the character pressed with ctrl
var ctrlNames = map[Key]string{
	KeyCtrlSpace:        "space",
	KeyCtrlBackslash:    `\`,
	KeyCtrlBracketLeft:  "[",
	KeyCtrlBracketRight: "]",
	KeyCtrlCaret:        "^",
	KeyCtrlUnderscore:   "_",
}

// aliases are alternative spellings accepted by KeyEvent.Is
var aliases = map[string]string{
	"enter":     "return",
	"esc":       "escape",
	"del":       "delete",
	"ins":       "insert",
	"page_up":   "pageup",
	"page_down": "pagedown",
	"pgup":      "pageup",
	"pgdn":      "pagedown",
	"backtab":   "shift+tab",
}

// canonicalCombo rewrites a combination such as "Ctrl+Enter" or "esc" into the
// form KeyEvent.String produces: modifiers ordered ctrl, alt, shift, then the
// event name
func canonicalCombo(combo string) string {
	// A trailing "+" is the key itself, as in "ctrl++"
	i := strings.LastIndex(combo[:max(len(combo)-1, 0)], "+")
	prefix, name := combo[:i+1], combo[i+1:]

	if len([]rune(name)) > 1 {
		name = strings.ToLower(name)
	}
	if a, ok := aliases[name]; ok {
		if j := strings.LastIndex(a, "+"); j >= 0 {
			prefix += a[:j+1]
			a = a[j+1:]
		}
		name = a
	}

	var mod Modifier
	if r := []rune(name); prefix == "" && len(r) == 1 && r[0] >= 'A' && r[0] <= 'Z' {
		name = string(r[0] + 'a' - 'A')
		mod |= ModShift
	}
	for _, m := range strings.Split(strings.ToLower(prefix), "+") {
		switch m {
		case "ctrl", "control":
			mod |= ModCtrl
		case "alt", "meta", "option":
			mod |= ModAlt
		case "shift":
			mod |= ModShift
		}
	}
	return mod.String() + name
}
