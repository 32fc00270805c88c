package threatintel

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ppiankov/phishlens/internal/cache"
	"github.com/ppiankov/phishlens/internal/model"
)

// Cached remembers successful lookups of another Checker.
// Failed lookups are never stored so the next run tries again.
type Cached struct {
	next  Checker
	store cache.Cache
	ttl   time.Duration // 0 = store default
}

// NewCached wraps next with store
func NewCached(next Checker, store cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, store: store, ttl: ttl}
}

// Check serves rawURL from the cache when possible
func (c *Cached) Check(ctx context.Context, rawURL string) model.ThreatIntel {
	key := cache.CacheKey(rawURL)

	if data, ok := c.store.Get(key); ok {
		var hit model.ThreatIntel
		if err := json.Unmarshal(data, &hit); err == nil {
			slog.Debug("threat intel cache hit", "url", rawURL)
			return hit
		}
		_ = c.store.Delete(key)
	}

	result := c.next.Check(ctx, rawURL)
	if !result.Enabled || !result.OK {
		return result
	}

	data, err := json.Marshal(result)
	if err != nil {
		return result
	}
	if err := c.store.Set(key, data, c.ttl); err != nil {
		slog.Warn("threat intel cache write failed", "error", err)
	}

	return result
}
