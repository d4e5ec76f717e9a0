package supervisor

import (
	"io"
	"os/exec"

	"github.com/tomwye/ffmpegjob/internal/platform"
)

// Stopper is an out-of-band handle to a running child, attached after
// spawn and detached during cleanup, exposing graceful and forceful
// termination. Grounded on spec §9's design note and kokorin/jaffree's
// Stopper interface (writeToStdIn("q\n") for graceful, destroy() for
// forceful).
type Stopper struct {
	cmd   *exec.Cmd
	stdin io.Writer
}

func newStopper(cmd *exec.Cmd, stdin io.Writer) *Stopper {
	return &Stopper{cmd: cmd, stdin: stdin}
}

// Graceful asks ffmpeg to stop by writing its documented "q\n"
// interactive-quit sequence to the child's stdin. Only meaningful if
// the child was not launched with -nostdin.
func (s *Stopper) Graceful() error {
	_, err := s.stdin.Write([]byte("q\n"))
	return err
}

// Forceful kills the child's entire process group on POSIX, or the
// child process directly on Windows.
func (s *Stopper) Forceful() error {
	if s.cmd.Process == nil {
		return nil
	}
	return platform.KillForceful(s.cmd.Process.Pid)
}
