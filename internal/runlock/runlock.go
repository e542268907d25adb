// Package runlock serializes enrichment runs against one library.
//
// Two concurrent runs over the same tree would race on metadata.json writes
// and double-bill the assistant, so the enrich command takes an advisory file
// lock in the log directory before scanning.
package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockName is the lock filename inside the log directory.
const LockName = "tome.lock"

// ErrHeld means another run owns the lock right now.
var ErrHeld = errors.New("another tome run is already in progress")

// Lock is an advisory single-instance lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// New prepares a lock rooted in logDir without acquiring it.
func New(logDir string) *Lock {
	path := filepath.Join(logDir, LockName)
	return &Lock{path: path, lock: flock.New(path)}
}

// Acquire takes the lock without blocking. ErrHeld when another process has
// it.
func (l *Lock) Acquire() error {
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *Lock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}
