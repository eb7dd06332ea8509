package search

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Cache{Rdb: rdb, TTL: time.Minute}
}

func TestCache_NilClientDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	_, hit := c.Get(ctx, defaultPrefs())
	assert.False(t, hit)

	c.Set(ctx, defaultPrefs(), nil)
	c.Invalidate(ctx)
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := setupCacheTest(t)
	prefs := defaultPrefs()

	_, hit := c.Get(ctx, prefs)
	assert.False(t, hit, "cold cache must miss")

	stored := []ScoredListing{
		{Listing: row("a", 60, 18000), Score: 1.5},
		{Listing: row("b", 50, 21000), Score: 0.8},
	}
	c.Set(ctx, prefs, stored)

	got, hit := c.Get(ctx, prefs)
	require.True(t, hit)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.InDelta(t, 1.5, got[0].Score, 1e-12)
	assert.Equal(t, "b", got[1].ID)
}

func TestCache_DistinctPreferencesDistinctEntries(t *testing.T) {
	ctx := context.Background()
	c := setupCacheTest(t)

	narrow := defaultPrefs()
	narrow.MaxPrice = fp(20000)
	c.Set(ctx, narrow, []ScoredListing{{Listing: row("a", 60, 18000)}})

	_, hit := c.Get(ctx, defaultPrefs())
	assert.False(t, hit, "different preferences must not share a cache entry")
}

func TestCache_InvalidateDropsAllEntries(t *testing.T) {
	ctx := context.Background()
	c := setupCacheTest(t)
	prefs := defaultPrefs()

	c.Set(ctx, prefs, []ScoredListing{{Listing: row("a", 60, 18000)}})
	_, hit := c.Get(ctx, prefs)
	require.True(t, hit)

	c.Invalidate(ctx)

	_, hit = c.Get(ctx, prefs)
	assert.False(t, hit, "version bump must invalidate prior entries")
}

func TestCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := &Cache{Rdb: rdb, TTL: time.Second}
	prefs := defaultPrefs()

	c.Set(ctx, prefs, []ScoredListing{{Listing: row("a", 60, 18000)}})
	mr.FastForward(2 * time.Second)

	_, hit := c.Get(ctx, prefs)
	assert.False(t, hit)
}
