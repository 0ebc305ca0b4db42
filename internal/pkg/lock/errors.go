package lock

import "errors"

// ErrLockTimeout is returned when a profile lock is not acquired in time.
var ErrLockTimeout = errors.New("profile lock acquisition timeout")
