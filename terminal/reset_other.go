//go:build unix && !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package terminal

func resetTerminalMode() {}
