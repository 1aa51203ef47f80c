package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"warungpos-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const productKey = "products:%s"

// ProductCache keeps the per-outlet catalog in Redis. A nil cache is a
// no-op, so wiring stays optional.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) Get(ctx context.Context, outletID string) ([]domain.Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(productKey, outletID)).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.Product
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *ProductCache) Set(ctx context.Context, outletID string, items []domain.Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, fmt.Sprintf(productKey, outletID), raw, c.ttl)
}

func (c *ProductCache) Invalidate(ctx context.Context, outletID string) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, fmt.Sprintf(productKey, outletID))
}
