//go:build unix

package main

import (
	"fmt"
	"os"
	"syscall"
)

// reexec replaces the current process with a fresh copy of itself
func reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	return syscall.Exec(exe, os.Args, os.Environ())
}
