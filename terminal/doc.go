// Package terminal provides direct ANSI terminal control for full-frame rendering.
//
// Features:
//   - 256-color palette output with coalesced SGR runs
//   - One buffered write per frame, cursor homed afterwards
//   - Raw stdin input decoding into named key events
//   - SIGWINCH resize detection
//   - Clean terminal restoration on exit, signal and panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
