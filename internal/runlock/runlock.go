// Package runlock enforces one cleaning pass per destination directory. Two
// hook invocations racing on the same download would otherwise classify the
// same candidates and fail removing entries the other already took.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld indicates another run already holds the lock for the destination.
var ErrHeld = errors.New("another run is processing this directory")

// Lock is a file lock scoped to one destination directory.
type Lock struct {
	path  string
	flock *flock.Flock
}

// New builds a lock for destination. The lock file lives in stateDir and is
// keyed by a digest of the destination path, so unrelated downloads never
// contend.
func New(stateDir, destination string) *Lock {
	digest := sha256.Sum256([]byte(filepath.Clean(destination)))
	name := fmt.Sprintf("run-%s.lock", hex.EncodeToString(digest[:8]))
	path := filepath.Join(stateDir, name)
	return &Lock{
		path:  path,
		flock: flock.New(path),
	}
}

// Path reports the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. A held lock returns ErrHeld so the
// caller can map contention onto its failure signal.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock file %s)", ErrHeld, l.path)
	}
	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
