//go:build !unix

// Package platform holds process-wide OS settings applied at startup.
package platform

// IgnoreChildExit is a no-op on platforms without SIGCHLD
func IgnoreChildExit() {}
