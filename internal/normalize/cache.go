// internal/normalize/cache.go
package normalize

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"applicant-ranker/internal/common/database"
	"applicant-ranker/internal/common/metrics"
)

// Cache stores normalization results keyed by normalized raw text for the
// lifetime of the process. Concurrent read/insert must be safe; a race only
// risks a redundant external call since results for the same normalized
// input are equivalent, so last-writer-wins is acceptable.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool)
	Set(ctx context.Context, key string, result Result)
}

// MemoryCache is the default per-process cache.
type MemoryCache struct {
	mu      sync.RWMutex
	results map[string]Result
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{results: make(map[string]Result)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key]
	if ok {
		metrics.CacheHitsTotal.WithLabelValues("memory").Inc()
	}
	return r, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key] = result
}

// Len returns the number of cached results.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// RedisCache is an optional shared backend layered over the in-process map.
// It lets multiple engine instances share resolution work; disabled by
// default so the engine stays stateless across runs unless the operator
// opts in.
type RedisCache struct {
	local *MemoryCache
	redis *database.RedisClient
	ttl   time.Duration
}

func NewRedisCache(redis *database.RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{
		local: NewMemoryCache(),
		redis: redis,
		ttl:   ttl,
	}
}

const redisKeyPrefix = "norm:"

func (c *RedisCache) Get(ctx context.Context, key string) (Result, bool) {
	if r, ok := c.local.Get(ctx, key); ok {
		return r, true
	}

	val, err := c.redis.Get(ctx, redisKeyPrefix+key)
	if err != nil {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return Result{}, false
	}
	metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
	c.local.Set(ctx, key, r)
	return r, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result Result) {
	c.local.Set(ctx, key, result)
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	// Redis write failures are silent: the local cache already holds the
	// result and the backend is best-effort.
	_ = c.redis.Set(ctx, redisKeyPrefix+key, data, c.ttl)
}
