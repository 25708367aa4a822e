package riskcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/adapters/out/riskcache"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis container tests are skipped in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestRedisRiskCache(t *testing.T) {
	client := startRedis(t)
	code := pincode.MustParse("400001")

	t.Run("miss", func(t *testing.T) {
		cache := riskcache.NewRedisRiskCache(client, "miss", time.Minute)

		_, ok, err := cache.Get(t.Context(), code)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		ctx := t.Context()
		cache := riskcache.NewRedisRiskCache(client, "hit", time.Minute)

		require.NoError(t, cache.Set(ctx, code, 0.35))
		score, ok, err := cache.Get(ctx, code)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.InDelta(t, 0.35, score, 1e-12)

		ttl, err := client.TTL(ctx, "hit:pincode_risk:400001").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("delete", func(t *testing.T) {
		ctx := t.Context()
		cache := riskcache.NewRedisRiskCache(client, "del", time.Minute)
		require.NoError(t, cache.Set(ctx, code, 0.8))

		require.NoError(t, cache.Delete(ctx, code))
		_, ok, err := cache.Get(ctx, code)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("fill only writes an empty entry", func(t *testing.T) {
		ctx := t.Context()
		cache := riskcache.NewRedisRiskCache(client, "fill", time.Minute)

		require.NoError(t, cache.Fill(ctx, code, 0.2))
		require.NoError(t, cache.Set(ctx, code, 0.45))
		require.NoError(t, cache.Fill(ctx, code, 0.2))
		score, ok, err := cache.Get(ctx, code)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.InDelta(t, 0.45, score, 1e-12)
	})

	t.Run("prefixes are isolated", func(t *testing.T) {
		ctx := t.Context()
		a := riskcache.NewRedisRiskCache(client, "tenant-a", time.Minute)
		b := riskcache.NewRedisRiskCache(client, "tenant-b", time.Minute)
		require.NoError(t, a.Set(ctx, code, 0.1))

		_, ok, err := b.Get(ctx, code)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, riskcache.NewRedisRiskCache(client, "", 0).Ping(t.Context()))
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client := riskcache.NewClient(riskcache.Config{})
	defer client.Close()

	assert.Equal(t, "127.0.0.1:6379", client.Options().Addr)
}
