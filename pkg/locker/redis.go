package locker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLocker implements DistributedLocker with Redsync (Redlock).
type RedisLocker struct {
	rs        *redsync.Redsync
	logger    *zap.Logger
	namespace string

	mu      sync.Mutex
	mutexes map[string]*redsync.Mutex
}

// NewRedisLocker creates a Redis-backed locker. Lock keys are stored as
// "<namespace>:lock:<key>"; an empty namespace drops the first segment.
func NewRedisLocker(client *redis.Client, logger *zap.Logger, namespace string) *RedisLocker {
	return &RedisLocker{
		rs:        redsync.New(goredis.NewPool(client)),
		logger:    logger.Named("locker"),
		namespace: namespace,
		mutexes:   make(map[string]*redsync.Mutex),
	}
}

// Acquire makes a single non-blocking attempt at the lock.
func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	mutex := r.rs.NewMutex(r.lockName(key),
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isTaken(err) {
			r.logger.Debug("lock held elsewhere", zap.String("key", key))
			return false, nil
		}

		return false, fmt.Errorf("acquiring lock %s: %w", key, err)
	}

	r.mu.Lock()
	r.mutexes[key] = mutex
	r.mu.Unlock()

	r.logger.Debug("lock acquired", zap.String("key", key), zap.Duration("ttl", ttl))

	return true, nil
}

// Release frees the lock if this instance holds it.
func (r *RedisLocker) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	mutex, ok := r.mutexes[key]
	delete(r.mutexes, key)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	released, err := mutex.UnlockContext(ctx)
	if err != nil {
		return fmt.Errorf("releasing lock %s: %w", key, err)
	}
	if !released {
		r.logger.Warn("lock expired before release", zap.String("key", key))
	}

	return nil
}

func (r *RedisLocker) lockName(key string) string {
	if r.namespace == "" {
		return "lock:" + key
	}

	return r.namespace + ":lock:" + key
}

// isTaken reports lock contention. Redsync signals it either with ErrFailed
// or with a wrapped "lock already taken" error listing the holding nodes.
func isTaken(err error) bool {
	return errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken")
}
