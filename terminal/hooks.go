package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
)

// InstallHooks restores t when the process receives SIGINT, SIGTERM or SIGHUP,
// then calls onSignal (which may be nil). The returned function removes the
// hooks and is safe to call more than once.
func InstallHooks(t Terminal, onSignal func(os.Signal)) (remove func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	stopCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			t.Fini()
			if onSignal != nil {
				onSignal(sig)
			}
		case <-stopCh:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(stopCh)
		})
	}
}

// Recover restores the terminal and exits when the calling goroutine panics.
// Use as: defer terminal.Recover(t, "render loop")
func Recover(t Terminal, where string) {
	if p := recover(); p != nil {
		Crash(t, where, p)
	}
}

// Crash restores the terminal after a recovered panic p, prints the trace and exits
func Crash(t Terminal, where string, p any) {
	if t != nil {
		t.Fini()
	}
	EmergencyReset(os.Stdout)
	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", where, p)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()
	os.Exit(1)
}
