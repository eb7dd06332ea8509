package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"flathunt-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "search:version"

// Cache stores ranked search results in Redis keyed by a hash of the
// preference specification. The version counter is bumped on every
// reconciliation pass, which invalidates all cached results at once. A nil
// client disables caching entirely.
type Cache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (c *Cache) key(ctx context.Context, prefs *domain.Preferences) (string, error) {
	b, err := json.Marshal(prefs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	ver, err := c.Rdb.Get(ctx, cacheVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("search:v%d:%s", ver, hex.EncodeToString(sum[:])), nil
}

// Get returns the cached result for prefs, or (nil, false) on miss. Cache
// errors degrade to a miss; the caller recomputes.
func (c *Cache) Get(ctx context.Context, prefs *domain.Preferences) ([]ScoredListing, bool) {
	if c == nil || c.Rdb == nil {
		return nil, false
	}
	key, err := c.key(ctx, prefs)
	if err != nil {
		return nil, false
	}
	b, err := c.Rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var result []ScoredListing
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, false
	}
	return result, true
}

// Set caches the result for prefs. Best-effort: errors are ignored.
func (c *Cache) Set(ctx context.Context, prefs *domain.Preferences, result []ScoredListing) {
	if c == nil || c.Rdb == nil {
		return
	}
	key, err := c.key(ctx, prefs)
	if err != nil {
		return
	}
	b, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	_ = c.Rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate drops every cached result by bumping the version counter.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.Rdb == nil {
		return
	}
	_ = c.Rdb.Incr(ctx, cacheVersionKey).Err()
}
