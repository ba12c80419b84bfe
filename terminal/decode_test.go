package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderFeed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []KeyEvent
	}{
		{"letter", "a", []KeyEvent{{Name: "a", Key: KeyRune, Rune: 'a'}}},
		{"capital", "A", []KeyEvent{{Name: "a", Key: KeyRune, Rune: 'A', Mod: ModShift}}},
		{"digit", "7", []KeyEvent{{Name: "7", Key: KeyRune, Rune: '7'}}},
		{"space", " ", []KeyEvent{{Name: "space", Key: KeySpace, Rune: ' '}}},
		{"return", "\r", []KeyEvent{{Name: "return", Key: KeyEnter}}},
		{"linefeed", "\n", []KeyEvent{{Name: "return", Key: KeyEnter}}},
		{"tab", "\t", []KeyEvent{{Name: "tab", Key: KeyTab}}},
		{"backspace", "\x7f", []KeyEvent{{Name: "backspace", Key: KeyBackspace}}},
		{"ctrl-c", "\x03", []KeyEvent{{Name: "c", Key: KeyCtrlC, Mod: ModCtrl}}},
		{"up", "\x1b[A", []KeyEvent{{Name: "up", Key: KeyUp}}},
		{"ctrl-right", "\x1b[1;5C", []KeyEvent{{Name: "right", Key: KeyRight, Mod: ModCtrl}}},
		{"shift-f5", "\x1b[15;2~", []KeyEvent{{Name: "f5", Key: KeyF5, Mod: ModShift}}},
		{"ctrl-alt-delete", "\x1b[3;7~", []KeyEvent{{Name: "delete", Key: KeyDelete, Mod: ModAlt | ModCtrl}}},
		{"ss3 f1", "\x1bOP", []KeyEvent{{Name: "f1", Key: KeyF1}}},
		{"console f2", "\x1b[[B", []KeyEvent{{Name: "f2", Key: KeyF2}}},
		{"backtab", "\x1b[Z", []KeyEvent{{Name: "tab", Key: KeyBacktab, Mod: ModShift}}},
		{"alt-x", "\x1bx", []KeyEvent{{Name: "x", Key: KeyRune, Rune: 'x', Mod: ModAlt}}},
		{"alt-escape", "\x1b\x1b", []KeyEvent{{Name: "escape", Key: KeyEscape, Mod: ModAlt}}},
		{"utf8", "é", []KeyEvent{{Name: "é", Key: KeyRune, Rune: 'é'}}},
		{"unknown csi swallowed", "\x1b[99zb", []KeyEvent{{Name: "b", Key: KeyRune, Rune: 'b'}}},
		{"sequence", "ab\r", []KeyEvent{
			{Name: "a", Key: KeyRune, Rune: 'a'},
			{Name: "b", Key: KeyRune, Rune: 'b'},
			{Name: "return", Key: KeyEnter},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			got := d.Feed([]byte(tt.input))
			assert.Equal(t, tt.want, got)
			assert.False(t, d.Pending())
		})
	}
}

func TestDecoderSplitInput(t *testing.T) {
	var d Decoder

	assert.Empty(t, d.Feed([]byte("\x1b[")))
	assert.True(t, d.Pending())
	got := d.Feed([]byte("1;2"))
	assert.Empty(t, got)
	got = d.Feed([]byte("A"))
	require.Len(t, got, 1)
	assert.Equal(t, "up", got[0].Name)
	assert.Equal(t, ModShift, got[0].Mod)

	// UTF-8 rune split across reads
	b := []byte("日")
	assert.Empty(t, d.Feed(b[:1]))
	got = d.Feed(b[1:])
	require.Len(t, got, 1)
	assert.Equal(t, '日', got[0].Rune)
}

func TestDecoderFlushLoneEscape(t *testing.T) {
	var d Decoder
	assert.Empty(t, d.Feed([]byte{0x1b}))
	assert.True(t, d.Pending())

	got := d.Flush()
	require.Len(t, got, 1)
	assert.Equal(t, KeyEvent{Name: "escape", Key: KeyEscape}, got[0])
	assert.False(t, d.Pending())
	assert.Nil(t, d.Flush())
}

func TestKeyEventString(t *testing.T) {
	var d Decoder
	evs := d.Feed([]byte("\x03A\r\x1b[1;6A"))
	require.Len(t, evs, 4)
	assert.Equal(t, "ctrl+c", evs[0].String())
	assert.True(t, evs[0].Is("ctrl+c"))
	assert.Equal(t, "shift+a", evs[1].String())
	assert.Equal(t, "return", evs[2].String())
	assert.Equal(t, "ctrl+shift+up", evs[3].String())
	assert.True(t, evs[3].Ctrl())
	assert.True(t, evs[3].Shift())
	assert.False(t, evs[3].Alt())
}

func TestKeyEventIs(t *testing.T) {
	enter := newKeyEvent(KeyEnter, 0, ModNone)
	backtab := newKeyEvent(KeyBacktab, 0, ModNone)
	ctrlC := newKeyEvent(KeyCtrlC, 0, ModNone)
	ctrlUp := newKeyEvent(KeyUp, 0, ModCtrl|ModShift)
	shiftA := newKeyEvent(KeyRune, 'A', ModNone)
	plus := newKeyEvent(KeyRune, '+', ModCtrl)
	ctrlBackslash := newKeyEvent(KeyCtrlBackslash, 0, ModNone)

	tests := []struct {
		ev    KeyEvent
		combo string
		want  bool
	}{
		{enter, "return", true},
		{enter, "Enter", true},
		{enter, "enter", true},
		{enter, "tab", false},
		{backtab, "shift+tab", true},
		{backtab, "backtab", true},
		{ctrlC, "ctrl+c", true},
		{ctrlC, "Ctrl+c", true},
		{ctrlC, "c", false},
		{ctrlUp, "shift+ctrl+up", true},
		{ctrlUp, "ctrl+up", false},
		{shiftA, "A", true},
		{shiftA, "shift+a", true},
		{shiftA, "a", false},
		{plus, "ctrl++", true},
		{ctrlBackslash, `ctrl+\`, true},
	}
	for _, tt := range tests {
		t.Run(tt.ev.String()+" "+tt.combo, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.Is(tt.combo))
		})
	}
}
