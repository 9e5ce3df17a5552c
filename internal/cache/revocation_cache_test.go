package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RevocationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationCache(client), mr
}

func TestRevocationCache_RevokeAndCheck(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	revoked, err := c.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	require.NoError(t, c.Revoke(ctx, "token-a", expiresAt))

	revoked, err = c.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = c.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], "token-a")
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), mr.TTL(keys[0]).Seconds(), 5)

	raw, err := mr.Get(keys[0])
	require.NoError(t, err)
	got, err := time.Parse(time.RFC3339, raw)
	require.NoError(t, err)
	assert.WithinDuration(t, expiresAt, got, time.Second)
}

func TestRevocationCache_RevokeTwiceIsHarmless(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))
	require.NoError(t, c.Revoke(ctx, "token-a", time.Now().Add(2*time.Hour)))

	assert.Len(t, mr.Keys(), 1)
	revoked, err := c.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))
	mr.FastForward(time.Hour + time.Second)

	revoked, err := c.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, mr.Keys())
}

func TestRevocationCache_PastExpiryIsNoop(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, c.Revoke(context.Background(), "token-a", time.Now().Add(-time.Minute)))
	assert.Empty(t, mr.Keys())
}

func TestRevocationCache_StoreUnavailable(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.IsRevoked(context.Background(), "token-a")
	assert.Error(t, err)
}
