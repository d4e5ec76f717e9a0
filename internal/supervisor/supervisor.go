// Package supervisor owns a single ffmpeg child process's lifecycle:
// spawn, concurrent stream/helper draining, exit wait, bounded
// quiesce, and the fixed error-priority reporting the job's caller
// sees.
//
// This is a single-shot rewrite of the teacher's restart-with-backoff
// Supervisor (internal/supervisor/supervisor.go in the original
// go-ffmpeg-hls-swarm), whose backoff/jitter/state machinery answers a
// different question — "keep this HLS client alive forever" — than
// the one this module answers: "run one job to completion and report
// its result." The spawn/cleanup mechanics (SysProcAttr process
// group, pipe wiring, errors.As exit-status extraction, structured
// slog fields) are kept from the teacher; the control flow itself is
// grounded on kokorin/jaffree's ProcessHandler.execute() /
// interactWithProcess(), including its exact cleanup ordering and
// fixed error-priority list.
package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/tomwye/ffmpegjob/internal/ffmpegerr"
	"github.com/tomwye/ffmpegjob/internal/option"
	"github.com/tomwye/ffmpegjob/internal/platform"
	"github.com/tomwye/ffmpegjob/internal/resultslot"
	"github.com/tomwye/ffmpegjob/internal/stream"
	"github.com/tomwye/ffmpegjob/internal/worker"
)

// executorQuiesceTimeout is the one bounded wait spec §5 names.
const executorQuiesceTimeout = 10 * time.Second

// windowsStopGrace is how long Execute waits, on Windows only, for the
// child to exit after destroy() before escalating to a forceful kill —
// the "safe strengthening" spec §9 permits for the "sometimes doesn't
// stop" open question.
const windowsStopGrace = 3 * time.Second

// ArgvSupplier resolves a job's argument vector. It is invoked exactly
// once, in step 1 of Execute, after helper workers have been started
// and, if HelpersReady is set, after every deferred URL slot they own
// has actually been published.
type ArgvSupplier func() []string

// Config holds everything the supervisor needs before Execute is
// called. Every field is a pre-execute setter's target; mutating a
// Config after Execute has started is undefined the way spec §3
// describes for supervisor state.
type Config[T any] struct {
	// ExecutablePath overrides the resolved ffmpeg binary; empty means
	// resolve via platform.ExecutableName(runtime.GOOS) on PATH.
	ExecutablePath string
	// ContextName labels this execution's log lines, including the
	// executor's; worker names themselves are fixed ("Runnable-i",
	// "StdOut", "StdErr").
	ContextName string
	Argv        ArgvSupplier
	// HelperWorkers are started under Executor names "Runnable-i" before
	// the child is spawned.
	HelperWorkers []func(ctx context.Context) error
	// HelpersReady, if set, is awaited (bounded by executorQuiesceTimeout
	// and ctx) after HelperWorkers have been started and before Argv is
	// resolved, so a socket-backed input or output's deferred URL slot
	// is guaranteed to hold its real bound port rather than an
	// unpublished zero value. ConfigFromJob sets this to job.HelpersReady;
	// a Config built by hand may leave it nil to skip the wait entirely.
	HelpersReady <-chan struct{}
	// StdoutHandler and StderrHandler process one line at a time and
	// attempt to publish into the result slot via trySet. A nil handler
	// falls back to a Gobbler-equivalent drain.
	StdoutHandler func(line string, trySet func(T) bool) error
	StderrHandler func(line string, trySet func(T) bool) error
	Logger        *slog.Logger

	// OnChildRunning, OnHelperWorkerDone and OnReaderWorkerDone are
	// optional metrics hooks: cmd/ffmpegjob wires these to
	// internal/metrics so this package never has to import it directly.
	// OnChildRunning is called with true right after the child spawns
	// and with false once Execute is done with it, however it exits.
	OnChildRunning func(running bool)
	// OnHelperWorkerDone is called once per helper worker with "ok" or
	// "error" when that worker's Func returns.
	OnHelperWorkerDone func(outcome string)
	// OnReaderWorkerDone is called once for each of "stdout"/"stderr"
	// with "ok" or "error" when that reader's Func returns.
	OnReaderWorkerDone func(streamName, outcome string)
}

func workerOutcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Supervisor runs a single Config[T] to completion exactly once.
type Supervisor[T any] struct {
	cfg     Config[T]
	log     *slog.Logger
	slot    *resultslot.Slot[T]
	stopper *Stopper

	executed bool
}

// New builds a Supervisor for cfg. cfg.Logger may be nil.
func New[T any](cfg Config[T]) *Supervisor[T] {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Supervisor[T]{
		cfg:  cfg,
		log:  log,
		slot: resultslot.New[T](log),
	}
}

// Stopper returns the Stopper attached to the child once Execute has
// spawned it. Nil before spawn.
func (s *Supervisor[T]) Stopper() *Stopper { return s.stopper }

// Execute runs the job to completion: resolves argv, starts helpers,
// spawns the child, drains its streams, waits for exit, quiesces the
// executor, and reports the first-priority failure or the result.
// Execute is single-shot; a second call returns IllegalStateError.
func (s *Supervisor[T]) Execute(ctx context.Context) (T, error) {
	var zero T
	if s.executed {
		return zero, &ffmpegerr.IllegalStateError{Msg: "Execute called more than once"}
	}
	s.executed = true

	ex := worker.New(s.cfg.ContextName, s.log)

	// Step 2: start helper workers before spawning the child so any
	// deferred URL slot they publish into is filled before step 1 reads
	// argv below. Helpers race the child, never the other way: we start
	// them, then resolve argv, then spawn — see spec §5's happens-before
	// requirement.
	for i, h := range s.cfg.HelperWorkers {
		h := h
		ex.Execute(helperName(i), func(context.Context) error {
			err := h(ctx)
			if s.cfg.OnHelperWorkerDone != nil {
				s.cfg.OnHelperWorkerDone(workerOutcome(err))
			}
			return err
		})
	}

	// Step 1: resolve argv, waiting first for every deferred URL slot to
	// be published so BuildArgv never observes a zero-value port. The
	// wait is bounded the same way executor quiesce is: a helper that
	// never publishes (bind failure, stuck negotiator) must not hang
	// Execute forever.
	if s.cfg.HelpersReady != nil {
		select {
		case <-s.cfg.HelpersReady:
		case <-ctx.Done():
		case <-time.After(executorQuiesceTimeout):
			s.log.Warn("helpers_ready_timed_out", "context", s.cfg.ContextName)
		}
	}
	argv := s.cfg.Argv()
	s.log.Info("resolved_argv", "context", s.cfg.ContextName, "argv", option.QuoteForLog(argv))

	// Step 3: spawn.
	path := s.cfg.ExecutablePath
	if path == "" {
		path = platform.ExecutableName(runtime.GOOS)
	}
	cmd := execCommand(path, argv)
	cmd.SysProcAttr = platform.NewProcessGroupAttr()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return zero, &ffmpegerr.IoError{Cause: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return zero, &ffmpegerr.IoError{Cause: err}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return zero, &ffmpegerr.IoError{Cause: err}
	}

	if err := cmd.Start(); err != nil {
		return zero, &ffmpegerr.IoError{Cause: err}
	}
	s.log.Debug("child_started", "context", s.cfg.ContextName, "pid", cmd.Process.Pid)
	s.stopper = newStopper(cmd, stdin)

	if s.cfg.OnChildRunning != nil {
		s.cfg.OnChildRunning(true)
		defer s.cfg.OnChildRunning(false)
	}

	// Step 4: reader workers.
	ex.Execute("StdOut", func(ctx context.Context) error {
		err := s.drain(stdout, s.cfg.StdoutHandler, "StdOut")
		if s.cfg.OnReaderWorkerDone != nil {
			s.cfg.OnReaderWorkerDone("stdout", workerOutcome(err))
		}
		return err
	})
	ex.Execute("StdErr", func(ctx context.Context) error {
		err := s.drain(stderr, s.cfg.StderrHandler, "StdErr")
		if s.cfg.OnReaderWorkerDone != nil {
			s.cfg.OnReaderWorkerDone("stderr", workerOutcome(err))
		}
		return err
	})

	// Step 5: block until the child exits. cmd.Wait would close the
	// stdout/stderr pipes as soon as the child exits, while the reader
	// workers may still be draining them; Process.Wait only reaps the
	// child and leaves the pipes to cleanup.
	waitDone := make(chan error, 1)
	go func() {
		state, err := cmd.Process.Wait()
		if err == nil && !state.Success() {
			err = &exec.ExitError{ProcessState: state}
		}
		waitDone <- err
	}()

	var waitErr error
	var interrupted bool
	select {
	case waitErr = <-waitDone:
	case <-ctx.Done():
		interrupted = true
		s.stopper.Forceful()
		waitErr = s.awaitExitAfterForcefulStop(cmd, waitDone)
	}

	// Step 6: bounded executor quiesce.
	if !ex.Quiesce(executorQuiesceTimeout) {
		s.log.Warn("executor_quiesce_timed_out", "context", s.cfg.ContextName,
			"still_running", ex.GetRunningThreadNames())
	}

	// Step 7: cleanup, always runs.
	s.cleanup(cmd, stdout, stderr, stdin)

	// Step 8: fixed-priority reporting.
	if werr := ex.GetException(); werr != nil {
		return zero, &ffmpegerr.WorkerError{Cause: werr}
	}
	if interrupted {
		return zero, &ffmpegerr.InterruptedError{Cause: ctx.Err()}
	}
	status := exitStatus(waitErr)
	if status != 0 {
		return zero, &ffmpegerr.NonZeroExitError{Status: status}
	}
	result, ok := s.slot.Get()
	if !ok {
		return zero, &ffmpegerr.NoResultError{}
	}
	return result, nil
}

func (s *Supervisor[T]) drain(pipe io.Reader, handler func(line string, trySet func(T) bool) error, name string) error {
	if handler == nil {
		return stream.NewGobbler(pipe).Run()
	}
	trySet := func(v T) bool { return s.slot.TrySet(v, name) }
	reader := stream.New[T](name, pipe, func(line string) error { return handler(line, trySet) })
	return reader.Run()
}

// awaitExitAfterForcefulStop waits for the child to be reaped once a
// forceful stop has been issued. On Windows only, where the source
// notes the child "sometimes doesn't stop and keeps running" after
// destroy, this applies the bounded escalation SPEC_FULL.md permits:
// if the child has not exited within windowsStopGrace, issue a second
// forceful kill and keep waiting unboundedly — this is a safe
// strengthening, not a contract change, since the wait was already
// unbounded on every other platform.
func (s *Supervisor[T]) awaitExitAfterForcefulStop(cmd *exec.Cmd, waitDone <-chan error) error {
	if runtime.GOOS != "windows" {
		return <-waitDone
	}
	select {
	case err := <-waitDone:
		return err
	case <-time.After(windowsStopGrace):
		s.log.Warn("windows_child_did_not_stop_escalating", "context", s.cfg.ContextName, "pid", cmd.Process.Pid)
		platform.KillForceful(cmd.Process.Pid)
		return <-waitDone
	}
}

// cleanup implements §4.4 step 7: destroy the child if still alive —
// a harmless idempotent call if Wait already reaped it — before
// closing any of the three stream handles, because closing a live
// child's streams can hang on some platforms, the same reasoning
// kokorin/jaffree's ProcessHandler documents in the source it was
// adapted from.
func (s *Supervisor[T]) cleanup(cmd *exec.Cmd, stdout, stderr io.Closer, stdin io.Closer) {
	if cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil {
			s.log.Debug("cleanup_kill_noop", "context", s.cfg.ContextName, "error", err)
		}
	}
	_ = stdout.Close()
	_ = stderr.Close()
	_ = stdin.Close()
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return platform.ExitStatus(exitErr)
	}
	return -1
}

func helperName(i int) string {
	return "Runnable-" + strconv.Itoa(i)
}
