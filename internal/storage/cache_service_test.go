package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/product-scanner/internal/models"
)

func setupTestCache(t *testing.T, ttl time.Duration) (*CacheService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return NewCacheService(NewRedisCacheFromClient(client), ttl), mr
}

func cachedProduct() *models.Product {
	brand := "Ferrero"
	return &models.Product{
		ID:        "3017620422003",
		Barcode:   "3017620422003",
		Name:      "Nutella",
		Brand:     &brand,
		ScannedAt: time.Now().Add(-time.Hour),
	}
}

func TestCacheServiceRoundTrip(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetProduct(ctx, cachedProduct()))

	got, hit := cache.GetProduct(ctx, "3017620422003")
	require.True(t, hit)
	require.NotNil(t, got)

	assert.Equal(t, "Nutella", got.Name)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Ferrero", *got.Brand)

	// ScannedAt is re-stamped on cache hits
	assert.WithinDuration(t, time.Now(), got.ScannedAt, 5*time.Second)
}

func TestCacheServiceMiss(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)

	got, hit := cache.GetProduct(context.Background(), "unknown")
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCacheServiceTTLExpiry(t *testing.T) {
	cache, mr := setupTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetProduct(ctx, cachedProduct()))

	mr.FastForward(2 * time.Minute)

	_, hit := cache.GetProduct(ctx, "3017620422003")
	assert.False(t, hit)
}

func TestCacheServiceCorruptEntryIsMiss(t *testing.T) {
	cache, mr := setupTestCache(t, time.Minute)

	require.NoError(t, mr.Set(cache.ProductKey("123"), "not-json"))

	got, hit := cache.GetProduct(context.Background(), "123")
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCacheServiceFailureDegradesToMiss(t *testing.T) {
	cache, mr := setupTestCache(t, time.Minute)
	mr.Close()

	got, hit := cache.GetProduct(context.Background(), "123")
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCacheServiceSkipsProductsWithoutBarcode(t *testing.T) {
	cache, mr := setupTestCache(t, time.Minute)

	product := &models.Product{ID: "ai-generated", Name: "Mystery Snack"}
	require.NoError(t, cache.SetProduct(context.Background(), product))

	assert.Empty(t, mr.Keys())
}

func TestCacheServiceInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetProduct(ctx, cachedProduct()))
	require.NoError(t, cache.InvalidateProduct(ctx, "3017620422003"))

	_, hit := cache.GetProduct(ctx, "3017620422003")
	assert.False(t, hit)
}
