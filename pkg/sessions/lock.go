package sessions

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// lockRetryDelay is how often a blocked hook invocation re-attempts the
// per-session lock. Lock holders only do local file I/O, so contention
// windows are milliseconds.
const lockRetryDelay = 25 * time.Millisecond

// lockTimeout bounds how long a hook invocation may wait for the lock.
// Hooks must never block the host indefinitely.
const lockTimeout = 5 * time.Second

// Mutex serializes read-modify-write sequences for one session id across
// concurrently dispatched hook processes. Locking is advisory: every
// writer must go through WithLock for the guarantee to hold.
type Mutex struct {
	basePath string
}

// NewMutex creates a session mutex rooted at the sessions directory.
func NewMutex(basePath string) (*Mutex, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create sessions directory")
	}
	return &Mutex{basePath: basePath}, nil
}

// WithLock runs fn while holding an exclusive file lock scoped to the
// session id. The lock is released on every exit path, including when fn
// fails or panics.
func (m *Mutex) WithLock(ctx context.Context, sessionID string, fn func() error) error {
	lockPath := filepath.Join(m.basePath, SanitizeID(sessionID)+".lock")
	fileLock := flock.New(lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return errors.Wrapf(err, "failed to acquire session lock %s", lockPath)
	}
	if !locked {
		return errors.Errorf("failed to acquire session lock %s", lockPath)
	}
	defer fileLock.Unlock()

	return fn()
}
