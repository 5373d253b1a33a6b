// Package blockcache caches a file's most recently fetched block
// locations, keyed by path, so a streaming reader doesn't re-issue
// getBlockLocations on every read once the manifest is known to still
// be fresh.
package blockcache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/marmos91/gohdfs/internal/logger"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

// defaultMaxCost bounds the cache's cost counter, not its entry count;
// each entry's cost is 1, so this is effectively a max entry count.
const defaultMaxCost = 10_000

// RefreshFunc fetches a fresh LocatedBlocks manifest for the path the
// cache entry was registered under.
type RefreshFunc func(ctx context.Context) (*rpcpb.LocatedBlocks, error)

// Cache holds one LocatedBlocks manifest per path with an expiration
// deadline. It never blocks a cache miss behind another caller's
// in-flight refresh — concurrent misses for the same path simply both
// call their refresh function, and the last SetWithTTL wins.
type Cache struct {
	store *ristretto.Cache[string, *rpcpb.LocatedBlocks]
}

// New constructs an empty cache.
func New() (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, *rpcpb.LocatedBlocks]{
		NumCounters: defaultMaxCost * 10,
		MaxCost:     defaultMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{store: store}, nil
}

// GetOrRefresh returns the cached manifest for path if it hasn't
// expired, otherwise calls refresh, stores the result with a deadline
// of now+expireIn, and returns it. A refresh error is propagated
// without touching the cache.
func (c *Cache) GetOrRefresh(ctx context.Context, path string, expireIn time.Duration, refresh RefreshFunc) (*rpcpb.LocatedBlocks, error) {
	if cached, ok := c.store.Get(path); ok {
		logger.DebugCtx(ctx, "block location cache hit", logger.Path(path))
		return cached, nil
	}

	fresh, err := refresh(ctx)
	if err != nil {
		return nil, err
	}

	c.store.SetWithTTL(path, fresh, 1, expireIn)
	c.store.Wait()
	logger.DebugCtx(ctx, "block location cache refreshed", logger.Path(path), logger.DurationMs(expireIn.Seconds()*1000))
	return fresh, nil
}

// Invalidate drops path's cached manifest, if any — used after a
// write or rename that could make stale block locations misleading.
func (c *Cache) Invalidate(path string) {
	c.store.Del(path)
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.store.Close()
}
