package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func limiters(t *testing.T) map[string]RateLimiter {
	return map[string]RateLimiter{
		"redis": NewRedisRateLimiter(setupTestRedis(t)),
		"local": NewLocalRateLimiter(),
	}
}

func TestRateLimiter_PerMinute(t *testing.T) {
	for name, limiter := range limiters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			config := RateLimitConfig{RequestsPerMinute: 5}

			for i := 0; i < 5; i++ {
				allowed, err := limiter.Allow(ctx, "form:silva:10.0.0.1", config)
				require.NoError(t, err)
				assert.True(t, allowed, "request %d should be allowed", i+1)
			}

			allowed, err := limiter.Allow(ctx, "form:silva:10.0.0.1", config)
			require.NoError(t, err)
			assert.False(t, allowed)

			allowed, err = limiter.Allow(ctx, "form:silva:10.0.0.2", config)
			require.NoError(t, err)
			assert.True(t, allowed, "keys are independent")
		})
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	for name, limiter := range limiters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			config := RateLimitConfig{RequestsPerMinute: 1}

			allowed, err := limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			require.True(t, allowed)

			allowed, err = limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			require.False(t, allowed)

			require.NoError(t, limiter.Reset(ctx, "k"))

			allowed, err = limiter.Allow(ctx, "k", config)
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestRateLimiter_RejectedRequestsAreNotCounted(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	config := RateLimitConfig{RequestsPerMinute: 2}

	for i := 0; i < 6; i++ {
		_, err := limiter.Allow(ctx, "k", config)
		require.NoError(t, err)
	}

	n, err := client.ZCard(ctx, limiter.getKey("k", time.Minute)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisRateLimiter_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisRateLimiter(client).Allow(context.Background(), "k", RateLimitConfig{RequestsPerMinute: 1})
	assert.Error(t, err)
}
