package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asset-dashboard/internal/logging"
	"github.com/redis/go-redis/v9"
)

// SchemaVersion is carried inside every cached payload and in the key itself.
// Bumping it invalidates all previously cached shapes without migration;
// old entries simply age out unused.
const SchemaVersion = 4

// CacheState describes the outcome of a cache read.
type CacheState int

const (
	// CacheMiss means no usable entry exists (absent, unreadable, or incompatible)
	CacheMiss CacheState = iota
	// CacheFresh means the entry is within its TTL
	CacheFresh
	// CacheStale means the entry outlived its TTL but is still retained
	// for the stale-on-error path
	CacheStale
)

// envelope wraps cached payloads with the metadata needed for the
// version compatibility check and freshness judgement on read.
type envelope struct {
	Version  int             `json:"version"`
	CachedAt time.Time       `json:"cachedAt"`
	TTL      time.Duration   `json:"ttl"`
	Payload  json.RawMessage `json:"payload"`
}

// SnapshotCache provides versioned, TTL-aware caching over Redis.
//
// Both operations tolerate the store being unreachable: a failed read is a
// miss, a failed write is logged and swallowed. Entries physically live
// TTL + staleRetention so an expired copy remains available when a live
// refetch fails.
type SnapshotCache struct {
	redis          *RedisCache
	staleRetention time.Duration

	// now allows tests to control freshness judgement
	now func() time.Time
}

// NewSnapshotCache creates a snapshot cache with the given stale-retention window.
func NewSnapshotCache(redis *RedisCache, staleRetention time.Duration) *SnapshotCache {
	return &SnapshotCache{
		redis:          redis,
		staleRetention: staleRetention,
		now:            time.Now,
	}
}

// SetClock overrides the cache's clock. Used by tests.
func (c *SnapshotCache) SetClock(now func() time.Time) {
	c.now = now
}

// AssetKey builds the cache key for an asset-details snapshot.
// Format: asset:v{schema}:{symbol}
func AssetKey(symbol string) string {
	return fmt.Sprintf("asset:v%d:%s", SchemaVersion, strings.ToUpper(symbol))
}

// PriceKey builds the cache key for a simple-price entry.
func PriceKey(symbol string) string {
	return fmt.Sprintf("price:v%d:%s", SchemaVersion, strings.ToUpper(symbol))
}

// SearchKey builds the cache key for a search-result entry.
func SearchKey(query, assetType string) string {
	return fmt.Sprintf("search:v%d:%s:%s", SchemaVersion, strings.ToUpper(query), strings.ToLower(assetType))
}

// Set stores a value under key with the given logical TTL. Write failures are
// logged and swallowed; the caller's response is unaffected.
func (c *SnapshotCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("failed to marshal cache payload")
		return
	}

	data, err := json.Marshal(envelope{
		Version:  SchemaVersion,
		CachedAt: c.now(),
		TTL:      ttl,
		Payload:  payload,
	})
	if err != nil {
		logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("failed to marshal cache envelope")
		return
	}

	if err := c.redis.Set(ctx, key, data, ttl+c.staleRetention); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// Get reads the value under key into dest and reports its state. Any read
// failure, including an unreachable store or a schema-version mismatch, is a
// miss; the caller proceeds to a live fetch.
func (c *SnapshotCache) Get(ctx context.Context, key string, dest interface{}) CacheState {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("cache read failed, treating as miss")
		}
		return CacheMiss
	}

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("corrupt cache entry, treating as miss")
		return CacheMiss
	}

	if env.Version != SchemaVersion {
		return CacheMiss
	}

	if err := json.Unmarshal(env.Payload, dest); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("key", key).Warn("incompatible cache payload, treating as miss")
		return CacheMiss
	}

	if c.now().Sub(env.CachedAt) <= env.TTL {
		return CacheFresh
	}
	return CacheStale
}
