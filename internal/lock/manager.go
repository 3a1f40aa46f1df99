package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

var (
	// ErrLockTimeout is returned when another host holds the lock past the timeout.
	ErrLockTimeout = fmt.Errorf("timeout acquiring instance lock")
	// ErrPathRequired is returned when the lock file path is empty.
	ErrPathRequired = fmt.Errorf("lock file path is required")
	// ErrNilLock is returned when a nil lock handle is provided to ReleaseLock.
	ErrNilLock = fmt.Errorf("nil lock handle")
)

const (
	// shortPollInterval is the interval to sleep when polling for a lock.
	shortPollInterval = 10 * time.Millisecond
)

// LockManager takes exclusive OS-level locks on lock files so that only one
// host serves a channel endpoint at a time.
type LockManager struct {
	logger *zap.Logger
}

// NewLockManager initializes and returns a new LockManager.
func NewLockManager(logger *zap.Logger) *LockManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockManager{logger: logger}
}

// AcquireLock takes an exclusive lock on path, creating the file if needed.
// It polls until timeout and returns ErrLockTimeout if the lock stays held.
func (lm *LockManager) AcquireLock(ctx context.Context, path string, timeout time.Duration) (*InstanceLock, error) {
	if path == "" {
		return nil, ErrPathRequired
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fileLock := flock.New(path)
	locked, err := fileLock.TryLockContext(ctx, shortPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, fmt.Errorf("acquire instance lock %s: %w", path, err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}

	lm.logger.Debug("instance lock acquired", zap.String("path", path))
	return &InstanceLock{Path: path, flock: fileLock}, nil
}

// ReleaseLock releases the given lock. The lock file itself is left in place.
func (lm *LockManager) ReleaseLock(lock *InstanceLock) error {
	if lock == nil {
		return ErrNilLock
	}
	if lock.flock == nil {
		return nil
	}
	if err := lock.flock.Unlock(); err != nil {
		return fmt.Errorf("release instance lock %s: %w", lock.Path, err)
	}
	lm.logger.Debug("instance lock released", zap.String("path", lock.Path))
	return nil
}
