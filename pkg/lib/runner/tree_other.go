//go:build !linux

package runner

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		// New session: own process group, no controlling terminal
		Setsid: true,
	}
}

// descendantsOf has no portable process table to walk here; the process group
// signal covers every descendant that stayed in the child's group.
func descendantsOf(pid int) []int {
	return nil
}

func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
