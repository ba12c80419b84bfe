package style

// Border is a box drawing line style
type Border uint8

const (
	BorderNone    Border = iota
	BorderSingle         // ┌─┐│└┘
	BorderDouble         // ╔═╗║╚╝
	BorderRounded        // ╭─╮│╰╯
	BorderHeavy          // ┏━┓┃┗┛
)

// Glyphs is the rune set of one border style
type Glyphs struct {
	TopLeft, Horizontal, TopRight rune
	Vertical                      rune
	BottomLeft, BottomRight       rune
}

var borderGlyphs = [...]Glyphs{
	BorderNone:    {' ', ' ', ' ', ' ', ' ', ' '},
	BorderSingle:  {'┌', '─', '┐', '│', '└', '┘'},
	BorderDouble:  {'╔', '═', '╗', '║', '╚', '╝'},
	BorderRounded: {'╭', '─', '╮', '│', '╰', '╯'},
	BorderHeavy:   {'┏', '━', '┓', '┃', '┗', '┛'},
}

var borderNames = map[string]Border{
	"none":    BorderNone,
	"single":  BorderSingle,
	"double":  BorderDouble,
	"rounded": BorderRounded,
	"round":   BorderRounded,
	"heavy":   BorderHeavy,
	"bold":    BorderHeavy,
}

// Glyphs returns the runes drawn for b; unknown styles draw single lines
func (b Border) Glyphs() Glyphs {
	if int(b) >= len(borderGlyphs) {
		return borderGlyphs[BorderSingle]
	}
	return borderGlyphs[b]
}

// Visible reports whether the border occupies cells
func (b Border) Visible() bool { return b != BorderNone }

func (b Border) String() string {
	switch b {
	case BorderNone:
		return "none"
	case BorderSingle:
		return "single"
	case BorderDouble:
		return "double"
	case BorderRounded:
		return "rounded"
	case BorderHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}
