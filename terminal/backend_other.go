//go:build !unix

package terminal

import (
	"os"

	errs "github.com/lixenwraith/termflow/errors"
)

// stubBackend refuses to start on platforms without a raw-mode tty
type stubBackend struct{}

func newBackend() Backend { return stubBackend{} }

// NewTTYBackend is unsupported on this platform
func NewTTYBackend(in, out *os.File) Backend { return stubBackend{} }

func (stubBackend) Init() error {
	return errs.WrapFatal(errs.ErrNotTerminal, "terminal", "Init", "check platform")
}
func (stubBackend) Fini()                                    {}
func (stubBackend) Size() (int, int)                         { return 80, 24 }
func (stubBackend) Write(p []byte) error                     { return nil }
func (stubBackend) Read(<-chan struct{}) ([]byte, error)     { return nil, errs.ErrNotTerminal }
func (stubBackend) SetResizeHandler(func(width, height int)) {}

func resetTerminalMode() {}
