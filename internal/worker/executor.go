// Package worker implements the named concurrent worker set that the
// supervisor runs helper and reader workers on.
//
// Grounded on internal/orchestrator/client_manager.go's
// map[int]*supervisor.Supervisor + mutex registry and its
// wg.Wait()-in-goroutine + select{done, timeout} Shutdown pattern, and
// on the naming/error-capture contract of kokorin/jaffree's Executor
// (each ProcessHandler.execute() call starts helpers under
// "Runnable-i" and readers under "StdOut"/"StdErr", captures the first
// worker exception, and drops the rest with a log line).
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Func is a unit of work run by the Executor. It receives a context
// cancelled when Stop is called and should honour it whenever it is
// blocked on I/O.
type Func func(ctx context.Context) error

// Executor runs a set of named workers concurrently, exposes liveness,
// and surfaces the first exception raised by any of them. It does not
// itself kill the child process; that is the supervisor's job via its
// Stopper.
type Executor struct {
	name string
	log  *slog.Logger

	mu      sync.Mutex
	running map[string]struct{}
	err     error
	errFrom string
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an Executor labelled name, used only for log lines.
func New(name string, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		name:    name,
		log:     log,
		running: make(map[string]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Execute starts fn on a fresh goroutine labelled name. Non-blocking.
// May be called multiple times, including after other workers have
// finished. A worker started after Stop is not started.
func (e *Executor) Execute(name string, fn Func) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.log.Debug("worker_not_started_after_stop", "executor", e.name, "worker", name)
		return
	}
	e.running[name] = struct{}{}
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			delete(e.running, name)
			e.mu.Unlock()
		}()
		if err := fn(e.ctx); err != nil {
			e.recordError(name, err)
		}
	}()
}

func (e *Executor) recordError(name string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		e.log.Warn("worker_error_dropped", "executor", e.name, "worker", name, "error", err)
		return
	}
	e.err = err
	e.errFrom = name
	e.log.Debug("worker_error_captured", "executor", e.name, "worker", name, "error", err)
}

// GetException returns the first exception captured from any worker, or
// nil. After Quiesce returns, this reflects the final error state.
func (e *Executor) GetException() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", e.errFrom, e.err)
}

// IsRunning reports whether at least one started worker has not yet terminated.
func (e *Executor) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.running) > 0
}

// GetRunningThreadNames returns a diagnostic snapshot of currently
// running worker names. Order is unspecified.
func (e *Executor) GetRunningThreadNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.running))
	for n := range e.running {
		names = append(names, n)
	}
	return names
}

// Stop signals cancellation to all workers and prevents further workers
// from starting. Idempotent.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()
	e.cancel()
}

// Quiesce waits up to timeout for every started worker to finish.
// Returns true if all workers finished before the deadline elapsed.
func (e *Executor) Quiesce(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
