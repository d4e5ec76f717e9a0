package supervisor

import (
	"os/exec"

	"github.com/tomwye/ffmpegjob/internal/option"
)

// execCommand is a seam for tests to substitute a fake ffmpeg binary
// without touching the real one, mirroring the teacher's ProcessBuilder
// indirection with a plain function var instead of an interface, since
// this module has exactly one call site.
var execCommand = func(path string, argv []string) *exec.Cmd {
	return exec.Command(path, argv...)
}

// ConfigFromJob adapts a declarative option.Job into a Config[T],
// wiring its helper workers and deferring argv resolution to
// job.BuildArgv so it observes any ports the helpers have published.
// The caller still supplies StdoutHandler/StderrHandler, since parsing
// the child's output into a T is outside the Job's own contract.
func ConfigFromJob[T any](job *option.Job, contextName string) Config[T] {
	return Config[T]{
		ContextName:   contextName,
		Argv:          job.BuildArgv,
		HelperWorkers: job.HelperWorkers(),
		HelpersReady:  job.HelpersReady(),
	}
}
