package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// EventType distinguishes terminal event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventError  // Read error
	EventClosed // Input closed
)

// Event is one terminal event
type Event struct {
	Type EventType
	Key  KeyEvent
	Size Size  // For EventResize
	Err  error // For EventError
}

// escapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const escapeTimeout = 50 * time.Millisecond

// inputReader pumps backend reads through a Decoder
type inputReader struct {
	backend Backend
	emit    func(Event)
	dec     Decoder
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

func newInputReader(backend Backend, emit func(Event)) *inputReader {
	return &inputReader{
		backend: backend,
		emit:    emit,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Don't block forever if a read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", p)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	var escAt time.Time
	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.emit(Event{Type: EventClosed})
			} else {
				r.emit(Event{Type: EventError, Err: err})
			}
			return
		}

		if len(data) == 0 {
			// Poll timeout: resolve a standalone ESC
			if r.dec.Pending() && time.Since(escAt) >= escapeTimeout {
				r.emitKeys(r.dec.Flush())
			}
			select {
			case <-r.stopCh:
				r.emit(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.emitKeys(r.dec.Feed(data))
		if r.dec.Pending() {
			escAt = time.Now()
		}
	}
}

func (r *inputReader) emitKeys(keys []KeyEvent) {
	for _, k := range keys {
		r.emit(Event{Type: EventKey, Key: k})
	}
}
