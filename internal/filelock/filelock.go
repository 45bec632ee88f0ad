// Package filelock guards a destination tree against concurrent packaging
// runs with an advisory lock file.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock file lock.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock backed by the file at path. Nothing is touched on disk
// until TryLock.
func New(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// For returns the lock guarding target: a hidden ".<base>.lock" file next
// to it in the parent directory.
func For(target string) *FileLock {
	target = filepath.Clean(target)
	return New(filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".lock"))
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns false if the lock is held by another process.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Locked reports whether this handle holds the lock.
func (fl *FileLock) Locked() bool {
	return fl.flock.Locked()
}

// Unlock releases the lock and removes the lock file.
func (fl *FileLock) Unlock() error {
	if !fl.flock.Locked() {
		return nil
	}
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	if err := os.Remove(fl.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file %s: %w", fl.path, err)
	}
	return nil
}
