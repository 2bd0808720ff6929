package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/product-scanner/internal/models"
)

// CacheService caches normalized barcode lookups so repeat scans of the same
// product skip the upstream nutrition database. Cache failures are reported as
// misses - the caller falls through to a direct lookup and the user never sees
// a cache error.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// ProductKey generates the cache key for a barcode lookup.
// Format: product:<barcode>
func (c *CacheService) ProductKey(barcode string) string {
	return "product:" + strings.ToLower(barcode)
}

// GetProduct returns the cached product for a barcode, or (nil, false) on a
// miss or cache failure. ScannedAt is re-stamped so a cache hit keeps the
// record's normalization-time semantics.
func (c *CacheService) GetProduct(ctx context.Context, barcode string) (*models.Product, bool) {
	data, err := c.redis.Get(ctx, c.ProductKey(barcode))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Degrade to a direct lookup on any cache failure
			return nil, false
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		return nil, false
	}

	product.ScannedAt = time.Now()
	return &product, true
}

// SetProduct stores a normalized product under its barcode with the configured
// TTL. Errors are returned for logging but are not fatal to the lookup.
func (c *CacheService) SetProduct(ctx context.Context, product *models.Product) error {
	if product == nil || product.Barcode == "" {
		return nil
	}

	data, err := json.Marshal(product)
	if err != nil {
		return err
	}

	return c.redis.Set(ctx, c.ProductKey(product.Barcode), data, c.ttl)
}

// InvalidateProduct drops a cached barcode lookup
func (c *CacheService) InvalidateProduct(ctx context.Context, barcode string) error {
	return c.redis.Del(ctx, c.ProductKey(barcode))
}
