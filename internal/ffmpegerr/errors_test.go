package ffmpegerr

import (
	"errors"
	"testing"
)

func TestIoErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &IoError{Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through IoError to its cause")
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestWorkerErrorUnwrap(t *testing.T) {
	cause := &NonZeroExitError{Status: 2}
	err := &WorkerError{Cause: cause}

	var target *NonZeroExitError
	if !errors.As(err, &target) {
		t.Error("errors.As should recover the wrapped NonZeroExitError")
	}
	if target.Status != 2 {
		t.Errorf("Status = %d, want 2", target.Status)
	}
}

func TestNonZeroExitErrorMessage(t *testing.T) {
	err := &NonZeroExitError{Status: 137}
	if err.Error() != "process exited with status 137" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestIllegalStateError(t *testing.T) {
	err := &IllegalStateError{Msg: "execute called more than once"}
	if err.Error() != "illegal state: execute called more than once" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
