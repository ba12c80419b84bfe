package terminal

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MemoryBackend is an in-memory Backend for headless runs and tests. It records
// every Write and serves injected input.
type MemoryBackend struct {
	mu       sync.Mutex
	width    int
	height   int
	out      bytes.Buffer
	writes   [][]byte
	resize   func(width, height int)
	initErr  error
	active   bool
	input    chan []byte
	eof      chan struct{}
	eofOnce  sync.Once
	pollTick time.Duration
}

// NewMemoryBackend creates a backend reporting width×height
func NewMemoryBackend(width, height int) *MemoryBackend {
	return &MemoryBackend{
		width:    width,
		height:   height,
		input:    make(chan []byte, 64),
		eof:      make(chan struct{}),
		pollTick: 10 * time.Millisecond,
	}
}

// FailInit makes the next Init return err
func (m *MemoryBackend) FailInit(err error) {
	m.mu.Lock()
	m.initErr = err
	m.mu.Unlock()
}

func (m *MemoryBackend) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.initErr; err != nil {
		m.initErr = nil
		return err
	}
	m.active = true
	return nil
}

func (m *MemoryBackend) Fini() {
	m.mu.Lock()
	m.active = false
	m.resize = nil
	m.mu.Unlock()
}

func (m *MemoryBackend) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *MemoryBackend) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out.Write(p)
	m.writes = append(m.writes, bytes.Clone(p))
	return nil
}

func (m *MemoryBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case data := <-m.input:
		return data, nil
	case <-stopCh:
		return nil, nil
	case <-m.eof:
		return nil, io.EOF
	case <-time.After(m.pollTick):
		return nil, nil
	}
}

func (m *MemoryBackend) SetResizeHandler(handler func(width, height int)) {
	m.mu.Lock()
	m.resize = handler
	m.mu.Unlock()
}

// Type queues raw input bytes as if typed at the terminal
func (m *MemoryBackend) Type(data []byte) {
	m.input <- bytes.Clone(data)
}

// CloseInput ends the input stream
func (m *MemoryBackend) CloseInput() {
	m.eofOnce.Do(func() { close(m.eof) })
}

// Resize changes the reported size and notifies the resize handler
func (m *MemoryBackend) Resize(width, height int) {
	m.mu.Lock()
	m.width, m.height = width, height
	h := m.resize
	m.mu.Unlock()
	if h != nil {
		h(width, height)
	}
}

// Output returns everything written so far
func (m *MemoryBackend) Output() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.out.Bytes())
}

// Writes returns each Write call's payload in order
func (m *MemoryBackend) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.writes...)
}

// LastWrite returns the most recent payload, nil if none
func (m *MemoryBackend) LastWrite() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return nil
	}
	return m.writes[len(m.writes)-1]
}

// Reset discards recorded output
func (m *MemoryBackend) Reset() {
	m.mu.Lock()
	m.out.Reset()
	m.writes = nil
	m.mu.Unlock()
}

// Active reports whether the backend is between Init and Fini
func (m *MemoryBackend) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
