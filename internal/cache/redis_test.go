package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baysidecampaign/signup-engine/internal/config"
	"github.com/baysidecampaign/signup-engine/internal/models"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
		User:     "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	expected := models.GenerationStats{
		TotalGenerated:    42,
		TotalWithComments: 12,
		CommentPercentage: 28.6,
	}
	err := cache.Set(ctx, StatsKey(time.Now()), expected, StatsTTL)
	require.NoError(t, err)

	var actual models.GenerationStats
	found, err := cache.Get(ctx, StatsKey(time.Now()), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out models.GenerationStats
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	err := cache.Set(ctx, BatchesKey(10), []models.BatchInfo{{BatchID: "b1", UserCount: 2}}, BatchesTTL)
	require.NoError(t, err)

	err = cache.Invalidate(ctx, BatchesKey(10))
	require.NoError(t, err)

	var out []models.BatchInfo
	found, err := cache.Get(ctx, BatchesKey(10), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	err := cache.Db.Set(ctx, "bad", []byte("not-json"), time.Minute).Err()
	require.NoError(t, err)

	var out models.GenerationStats
	found, err := cache.Get(ctx, "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestStatsKeyUsesUTCDate(t *testing.T) {
	day := time.Date(2025, 6, 1, 23, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "stats:2025-06-01", StatsKey(day))
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		Addr: "127.0.0.1:9999",
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
