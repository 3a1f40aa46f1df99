package lock

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// InstanceLock is a handle to a held OS-level file lock.
type InstanceLock struct {
	Path  string
	flock *flock.Flock
}

// Locked reports whether the handle still holds its lock.
func (l *InstanceLock) Locked() bool {
	return l != nil && l.flock != nil && l.flock.Locked()
}

// LockManagerInterface is what serve needs from a lock manager.
type LockManagerInterface interface {
	AcquireLock(ctx context.Context, path string, timeout time.Duration) (*InstanceLock, error)
	ReleaseLock(lock *InstanceLock) error
}

var _ LockManagerInterface = (*LockManager)(nil)
