package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/asset-dashboard/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestCache creates a SnapshotCache backed by a miniredis instance.
func setupTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSnapshotCache(NewRedisCacheFromClient(client), 24*time.Hour), mr
}

func testSnapshot() *types.AssetSnapshot {
	return &types.AssetSnapshot{
		Symbol:        "AAPL",
		AssetType:     types.AssetTypeStock,
		LastPrice:     types.Float64Ptr(150),
		PercentChange: 1.35,
		Volume:        1200000,
		MarketCap:     types.Float64Ptr(2500000),
		MarketStatus:  types.MarketOpen,
		Chart:         []float64{148, 149, 150},
		Labels:        []string{"Mar 1", "Mar 2", "Mar 3"},
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	want := testSnapshot()
	cache.Set(ctx, AssetKey("AAPL"), want, time.Hour)

	var got types.AssetSnapshot
	state := cache.Get(ctx, AssetKey("AAPL"), &got)

	assert.Equal(t, CacheFresh, state)
	assert.Equal(t, *want, got)
}

func TestSnapshotCacheMiss(t *testing.T) {
	cache, _ := setupTestCache(t)

	var got types.AssetSnapshot
	state := cache.Get(context.Background(), AssetKey("MSFT"), &got)
	assert.Equal(t, CacheMiss, state)
}

func TestSnapshotCacheStaleAfterTTL(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	base := time.Now()
	cache.SetClock(func() time.Time { return base })
	cache.Set(ctx, AssetKey("AAPL"), testSnapshot(), time.Hour)

	// logical TTL passed, physical retention not
	cache.SetClock(func() time.Time { return base.Add(2 * time.Hour) })

	var got types.AssetSnapshot
	state := cache.Get(ctx, AssetKey("AAPL"), &got)
	assert.Equal(t, CacheStale, state)
	assert.Equal(t, "AAPL", got.Symbol)
}

func TestSnapshotCacheVersionMismatch(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	// entry written by an older schema version
	mr.Set(AssetKey("AAPL"), `{"version":1,"cachedAt":"2026-01-01T00:00:00Z","ttl":3600000000000,"payload":{"symbol":"AAPL"}}`)

	var got types.AssetSnapshot
	state := cache.Get(ctx, AssetKey("AAPL"), &got)
	assert.Equal(t, CacheMiss, state)
}

func TestSnapshotCacheCorruptEntry(t *testing.T) {
	cache, mr := setupTestCache(t)

	mr.Set(AssetKey("AAPL"), "not json at all")

	var got types.AssetSnapshot
	state := cache.Get(context.Background(), AssetKey("AAPL"), &got)
	assert.Equal(t, CacheMiss, state)
}

func TestSnapshotCacheUnreachableStoreIsMiss(t *testing.T) {
	cache, mr := setupTestCache(t)
	mr.Close()

	var got types.AssetSnapshot
	state := cache.Get(context.Background(), AssetKey("AAPL"), &got)
	assert.Equal(t, CacheMiss, state)

	// writes are swallowed, not panics
	cache.Set(context.Background(), AssetKey("AAPL"), testSnapshot(), time.Hour)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "asset:v4:AAPL", AssetKey("aapl"))
	assert.Equal(t, "price:v4:BTC", PriceKey("btc"))
	assert.Equal(t, "search:v4:TESLA:stock", SearchKey("tesla", "STOCK"))
}
