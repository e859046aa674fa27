package iocache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces dump cache keys in a shared Redis database.
const redisKeyPrefix = "slippistats:dump:"

// redisTimeout bounds every Redis round trip.
const redisTimeout = 5 * time.Second

// redisEntry is the JSON value stored per key.
type redisEntry struct {
	Value     []byte `json:"value"`
	Version   int    `json:"version"`
	Timestamp int64  `json:"timestamp"`
}

// RedisDumpCache keeps raw tool output in Redis with a key expiry.
type RedisDumpCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ contract.DumpCache = &RedisDumpCache{} // Compile-time check

// NewRedisDumpCache connects to the Redis server named by a redis:// URL.
func NewRedisDumpCache(url string, ttl time.Duration) (*RedisDumpCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w. Expected redis://[user:password@]host:port/db", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w. Check that Redis is running", opts.Addr, err)
	}
	return &RedisDumpCache{client: client, ttl: ttl}, nil
}

// Get retrieves a cached dump by key. A missing key wraps both contract.ErrCacheMiss and redis.Nil.
func (c *RedisDumpCache) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, 0, fmt.Errorf("%w: %w", contract.ErrCacheMiss, err)
	}
	if err != nil {
		return nil, 0, 0, err
	}
	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return entry.Value, entry.Version, entry.Timestamp, nil
}

// Set stores a dump, expiring it after the configured ttl (0 keeps it forever).
func (c *RedisDumpCache) Set(key string, value []byte, version int, timestamp int64) error {
	data, err := json.Marshal(redisEntry{Value: value, Version: version, Timestamp: timestamp})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	return c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err()
}

// GetStatus scans the cache keys for counts, age range and memory usage.
func (c *RedisDumpCache) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.RedisCache), Connected: true}

	ctx, cancel := context.WithTimeout(context.Background(), 4*redisTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return status, fmt.Errorf("failed to read %s: %w", key, err)
		}

		var entry redisEntry
		if json.Unmarshal(raw, &entry) != nil {
			continue
		}
		status.TotalEntries++
		ts := time.Unix(entry.Timestamp, 0)
		if status.OldestEntryTime.IsZero() || ts.Before(status.OldestEntryTime) {
			status.OldestEntryTime = ts
		}
		if ts.After(status.LastEntryTime) {
			status.LastEntryTime = ts
		}
		if usage, err := c.client.MemoryUsage(ctx, key).Result(); err == nil {
			status.TableSizeBytes += usage
		}
	}
	if err := iter.Err(); err != nil {
		return status, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return status, nil
}

// Clear deletes every dump cache key and returns how many were removed.
func (c *RedisDumpCache) Clear(ctx context.Context) (int64, error) {
	var removed int64
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		n, err := c.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, iter.Err()
}

// Close closes the Redis connection.
func (c *RedisDumpCache) Close() error {
	return c.client.Close()
}
