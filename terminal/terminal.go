package terminal

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/style"
)

// Cell represents a single terminal cell. A zero Rune paints as a space; the
// cell following a double-width rune is covered by it and not written.
type Cell struct {
	Rune  rune
	Style style.Style
}

// Size is a terminal size in cells
type Size struct {
	Columns int
	Rows    int
}

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() Size

	// Events delivers key, resize and input-closed events
	Events() <-chan Event

	// Flush writes a full frame in one write, cursor homed afterwards
	// Cells are row-major: cells[y*width + x]
	Flush(cells []Cell, width, height int) error

	// Clear resets attributes and erases the screen
	Clear() error

	// SetCursorVisible shows/hides cursor
	SetCursorVisible(visible bool)
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend

	output  frameEncoder
	input   *inputReader
	eventCh chan Event

	cursorVisible atomic.Bool

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a Terminal on the process's stdin and stdout
func New() Terminal {
	return NewWithBackend(newBackend())
}

// NewWithBackend creates a Terminal driving b
func NewWithBackend(b Backend) Terminal {
	return &termImpl{
		backend: b,
		eventCh: make(chan Event, 256),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return errs.WrapLifecycle(errs.ErrTerminalClosed, "terminal", "Init", "reinitialize")
	}
	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.input = newInputReader(t.backend, t.emit)
	t.backend.SetResizeHandler(func(w, h int) {
		t.emit(Event{Type: EventResize, Size: Size{Columns: w, Rows: h}})
	})

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	// Prevents terminal scroll/wrap on bottom-right corner write
	t.writeRaw(csiAutoWrapOff)
	t.cursorVisible.Store(false)
	t.writeRaw(csiSGR0)
	t.writeRaw(csiClear)

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.input != nil {
		t.input.stop()
	}

	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Re-enable Auto-Wrap AFTER exiting alt screen to ensure the main buffer has wrap enabled
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()
	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() Size {
	w, h := t.backend.Size()
	return Size{Columns: w, Rows: h}
}

// Events returns the event channel
func (t *termImpl) Events() <-chan Event {
	return t.eventCh
}

// Flush writes cell buffer to terminal.
// A frame whose size no longer matches the terminal is dropped; the pending
// resize event triggers a new one.
func (t *termImpl) Flush(cells []Cell, width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready("Flush"); err != nil {
		return err
	}

	if w, h := t.backend.Size(); w != width || h != height {
		return nil
	}

	if err := t.backend.Write(t.output.encode(cells, width, height)); err != nil {
		return errs.WrapFatal(err, "terminal", "Flush", "write frame")
	}
	return nil
}

// Clear resets attributes and erases the screen
func (t *termImpl) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ready("Clear"); err != nil {
		return err
	}
	if err := t.backend.Write(append(append([]byte{}, csiSGR0...), csiClear...)); err != nil {
		return errs.WrapFatal(err, "terminal", "Clear", "write")
	}
	return nil
}

// SetCursorVisible shows/hides cursor
func (t *termImpl) SetCursorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	if t.cursorVisible.Swap(visible) == visible {
		return
	}
	if visible {
		t.writeRaw(csiCursorShow)
	} else {
		t.writeRaw(csiCursorHide)
	}
}

func (t *termImpl) ready(method string) error {
	if t.finalized {
		return errs.WrapLifecycle(errs.ErrTerminalClosed, "terminal", method, "check state")
	}
	if !t.initialized {
		return errs.WrapLifecycle(errs.ErrNotStarted, "terminal", method, "check state")
	}
	return nil
}

// emit sends an event without blocking the reader; events are dropped when
// nobody drains the channel
func (t *termImpl) emit(ev Event) {
	select {
	case t.eventCh <- ev:
	default:
	}
}

// writeRaw writes raw bytes to output
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
