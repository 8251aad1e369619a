package redis

import (
	"context"
	"testing"
	"time"

	"worldpath-wallet/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStatus() domain.WalletStatus {
	return domain.WalletStatus{
		Authorized: true,
		Suspended:  false,
		Balance:    decimal.RequireFromString("1500.50"),
	}
}

func TestStatusCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatusCache(client)
	ctx := context.Background()

	// Get before set => miss
	result, err := cache.Get(ctx, "WP-ABC123")
	assert.NoError(t, err)
	assert.Nil(t, result)

	status := testStatus()
	require.NoError(t, cache.Set(ctx, "WP-ABC123", status, 5*time.Second))

	result, err = cache.Get(ctx, "WP-ABC123")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Authorized)
	assert.False(t, result.Suspended)
	assert.True(t, result.Balance.Equal(status.Balance))
}

func TestStatusCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatusCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "WP-ABC123", testStatus(), 5*time.Second))

	// Fast-forward time in miniredis past the TTL.
	s.FastForward(6 * time.Second)

	result, err := cache.Get(ctx, "WP-ABC123")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired status should be a miss")
}

func TestStatusCache_Invalidate(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatusCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "WP-ABC123", testStatus(), time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "WP-ABC123"))

	result, err := cache.Get(ctx, "WP-ABC123")
	assert.NoError(t, err)
	assert.Nil(t, result, "invalidated status should be a miss")
}

func TestStatusCache_InvalidateMissingKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatusCache(client)

	// DEL on a missing key is not an error.
	assert.NoError(t, cache.Invalidate(context.Background(), "WP-MISSING"))
}

func TestStatusCache_KeysAreScoped(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewStatusCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "WP-AAA111", testStatus(), time.Minute))

	other, err := cache.Get(ctx, "WP-BBB222")
	assert.NoError(t, err)
	assert.Nil(t, other, "cache entries must not leak across wallet ids")
}
