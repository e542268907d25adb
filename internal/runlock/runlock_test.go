package runlock

import (
	"errors"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	lock := New(t.TempDir())
	if err := lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// Reacquirable after release.
	if err := lock.Acquire(); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	lock.Release()
}

func TestSecondAcquireFromSameProcessSucceeds(t *testing.T) {
	// flock is per-process on the same file handle; contention shows up
	// across processes, which a unit test cannot model cheaply. This only
	// pins the non-blocking behavior of TryLock.
	dir := t.TempDir()
	first := New(dir)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()

	second := New(dir)
	err := second.Acquire()
	if err != nil && !errors.Is(err, ErrHeld) {
		t.Fatalf("unexpected error: %v", err)
	}
	if err == nil {
		second.Release()
	}
}
