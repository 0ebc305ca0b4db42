// Package lock serializes commits per profile.
package lock

import (
	"context"
	"sync"
	"time"
)

// ProfileLock hands out one mutex per profile id. Commits to different
// profiles never block each other.
type ProfileLock struct {
	mu    sync.Mutex
	slots map[int64]chan struct{}
}

// NewProfileLock creates a new ProfileLock.
func NewProfileLock() *ProfileLock {
	return &ProfileLock{slots: make(map[int64]chan struct{})}
}

// slot returns the one-token semaphore of a profile, creating it on first use.
func (pl *ProfileLock) slot(profileID int64) chan struct{} {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	s, ok := pl.slots[profileID]
	if !ok {
		s = make(chan struct{}, 1)
		pl.slots[profileID] = s
	}
	return s
}

// Lock blocks until the profile's lock is held.
func (pl *ProfileLock) Lock(profileID int64) {
	pl.slot(profileID) <- struct{}{}
}

// Unlock releases the profile's lock. Unlocking a profile that is not
// locked is a no-op.
func (pl *ProfileLock) Unlock(profileID int64) {
	select {
	case <-pl.slot(profileID):
	default:
	}
}

// TryLock acquires the lock without blocking and reports whether it did.
func (pl *ProfileLock) TryLock(profileID int64) bool {
	select {
	case pl.slot(profileID) <- struct{}{}:
		return true
	default:
		return false
	}
}

// LockContext blocks until the lock is held, ctx is done or timeout
// elapses. A zero timeout waits on ctx alone.
func (pl *ProfileLock) LockContext(ctx context.Context, profileID int64, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case pl.slot(profileID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrLockTimeout
		}
		return ctx.Err()
	}
}

// WithLock runs fn while holding the profile's lock.
func (pl *ProfileLock) WithLock(profileID int64, fn func() error) error {
	pl.Lock(profileID)
	defer pl.Unlock(profileID)
	return fn()
}

// WithLockContext runs fn while holding the profile's lock, giving up with
// ErrLockTimeout after timeout or with ctx's error when ctx is done first.
func (pl *ProfileLock) WithLockContext(ctx context.Context, profileID int64, timeout time.Duration, fn func() error) error {
	if err := pl.LockContext(ctx, profileID, timeout); err != nil {
		return err
	}
	defer pl.Unlock(profileID)
	return fn()
}

// IsLocked reports whether the profile's lock is currently held. The answer
// may be stale as soon as it is returned.
func (pl *ProfileLock) IsLocked(profileID int64) bool {
	return len(pl.slot(profileID)) == 1
}
