// Package locker coordinates work across service instances with
// expiring distributed locks.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides distributed lock capabilities across multiple instances.
// Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, not an error,
	// when another instance holds it. The lock expires after ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a lock taken by this instance. Releasing a lock this
	// instance does not hold is a no-op.
	Release(ctx context.Context, key string) error
}

// RunExclusive runs fn only if the lock for key can be taken, and releases it
// afterwards. ran reports whether fn was invoked.
func RunExclusive(ctx context.Context, l DistributedLocker, key string, ttl time.Duration, fn func(context.Context) error) (ran bool, err error) {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil || !acquired {
		return false, err
	}

	defer func() {
		// Release even when ctx was cancelled mid-run.
		if relErr := l.Release(context.WithoutCancel(ctx), key); relErr != nil && err == nil {
			err = relErr
		}
	}()

	return true, fn(ctx)
}
