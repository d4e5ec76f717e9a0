//go:build !windows

package platform

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// NewProcessGroupAttr returns a SysProcAttr that places the child in
// its own process group, so a forceful stop can kill any grandchildren
// ffmpeg spawns (e.g. its own helper processes) along with it.
func NewProcessGroupAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// KillForceful sends SIGKILL to the process group rooted at pid. If
// the process group cannot be resolved, it falls back to killing pid
// alone.
func KillForceful(pid int) error {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return unix.Kill(pid, unix.SIGKILL)
	}
	return unix.Kill(-pgid, unix.SIGKILL)
}

// KillGraceful sends SIGTERM to the process group rooted at pid.
func KillGraceful(pid int) error {
	pgid, err := unix.Getpgid(pid)
	if err != nil {
		return unix.Kill(pid, unix.SIGTERM)
	}
	return unix.Kill(-pgid, unix.SIGTERM)
}

// ExitStatus extracts the child's numeric exit status from an
// *exec.ExitError, falling back to -1 if the platform's wait status
// cannot be interpreted.
func ExitStatus(err *exec.ExitError) int {
	if ws, ok := err.Sys().(syscall.WaitStatus); ok {
		return ws.ExitStatus()
	}
	return -1
}
