package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"vendorhub/internal/api/repository"

	"github.com/redis/go-redis/v9"
)

// SalesCache is a read-through Redis cache for the sales summary view.
// Cache misses and Redis outages both fall back to the database; a stale
// entry only survives until CACHE_TTL or the next delivered order.
type SalesCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSalesCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SalesCache {
	return &SalesCache{client: client, ttl: ttl, logger: logger}
}

func key(vendorID string) string {
	if vendorID == "" {
		return "sales:summary:platform"
	}
	return "sales:summary:vendor:" + vendorID
}

func (c *SalesCache) Get(ctx context.Context, vendorID string) (*repository.SalesSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(vendorID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("sales cache read failed", "error", err)
		}
		return nil, false
	}
	var summary repository.SalesSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

func (c *SalesCache) Set(ctx context.Context, vendorID string, summary *repository.SalesSummary) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(vendorID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("sales cache write failed", "error", err)
	}
}

func (c *SalesCache) Invalidate(ctx context.Context, vendorID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(vendorID), key("")).Err(); err != nil {
		c.logger.Warn("sales cache invalidate failed", "error", err)
	}
}
