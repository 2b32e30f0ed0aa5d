package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Use unique connection name per test to avoid global adapter caching issues
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func TestReferenceGuard_AcquireAndRelease(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	guard := NewReferenceGuard(adapter)
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "order-100")
	require.NoError(t, err)
	assert.True(t, acquired)

	// Same reference again is a duplicate.
	acquired, err = guard.Acquire(ctx, "order-100")
	require.NoError(t, err)
	assert.False(t, acquired)

	// A different reference is independent.
	acquired, err = guard.Acquire(ctx, "order-101")
	require.NoError(t, err)
	assert.True(t, acquired)

	// Release frees the reference for retry.
	guard.Release(ctx, "order-100")
	acquired, err = guard.Acquire(ctx, "order-100")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestReferenceGuard_MarkerExpires(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	guard := NewReferenceGuard(adapter)
	ctx := context.Background()

	acquired, err := guard.Acquire(ctx, "order-100")
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(referenceTTL)

	acquired, err = guard.Acquire(ctx, "order-100")
	require.NoError(t, err)
	assert.True(t, acquired)
}
