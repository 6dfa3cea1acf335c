//go:build unix

// Package platform holds process-wide OS settings applied at startup.
package platform

import (
	"os/signal"
	"syscall"
)

// IgnoreChildExit sets SIGCHLD to ignored so the kernel reaps exited
// children without anyone waiting on them.
// Note: after this, exec.Cmd.Wait on a child reports ECHILD.
func IgnoreChildExit() {
	signal.Ignore(syscall.SIGCHLD)
}
