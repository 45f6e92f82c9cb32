package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// scanBatch is the COUNT hint passed to SCAN and the DEL batch size.
const scanBatch = 500

// Cache implements the domain.Cache interface using Redis.
// Every key is namespaced under keyPrefix.
type Cache struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
}

// NewCache creates a new Redis cache instance.
func NewCache(client *redis.Client, logger *zap.Logger, keyPrefix string) *Cache {
	return &Cache{
		client:    client,
		logger:    logger.Named("cache"),
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value by key. Returns nil if the key doesn't exist.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("cache hit", zap.String("key", key), zap.Int("bytes", len(data)))

	return data, nil
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.buildKey(key), value, ttl).Err(); err != nil {
		c.logger.Error("cache set failed",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)

		return err
	}

	return nil
}

// Delete removes a value by key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.buildKey(key)).Err(); err != nil {
		c.logger.Error("cache delete failed", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

// DeletePrefix removes every value whose key starts with prefix,
// e.g. all cached listings of one book.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	return c.deleteMatching(ctx, c.buildKey(prefix)+"*")
}

// Clear removes all cached values under keyPrefix.
func (c *Cache) Clear(ctx context.Context) error {
	return c.deleteMatching(ctx, c.keyPrefix+":*")
}

// deleteMatching walks the keyspace with SCAN, which does not block the
// server the way KEYS does, and deletes matches in batches.
func (c *Cache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()

	deleted := 0
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return err
		}
		deleted += len(batch)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				c.logger.Error("cache delete batch failed", zap.String("pattern", pattern), zap.Error(err))
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	if err := flush(); err != nil {
		c.logger.Error("cache delete batch failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}

	c.logger.Debug("cache keys deleted", zap.String("pattern", pattern), zap.Int("count", deleted))

	return nil
}

func (c *Cache) buildKey(key string) string {
	return c.keyPrefix + ":" + key
}
