package revokedtokens

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client), mr
}

func TestRedisRevoke_OnceOnly(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(10 * time.Minute)

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	first, err := repo.Revoke(ctx, "jti-1", "u-1", exp)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.Revoke(ctx, "jti-1", "u-1", exp)
	require.NoError(t, err)
	assert.False(t, second)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	got, err := mr.Get(redisKeyPrefix + "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got)
	assert.InDelta(t, (10 * time.Minute).Seconds(), mr.TTL(redisKeyPrefix+"jti-1").Seconds(), 2)
}

func TestRedisRevoke_KeyExpiresWithToken(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	_, err := repo.Revoke(ctx, "jti-1", "u-1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoke_AlreadyExpired(t *testing.T) {
	repo, mr := newRedisRepo(t)

	ok, err := repo.Revoke(context.Background(), "jti-1", "u-1", time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, mr.Exists(redisKeyPrefix+"jti-1"))
}

func TestRedis_DeleteExpiredIsNoop(t *testing.T) {
	repo, _ := newRedisRepo(t)

	n, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedis_ConnectionError(t *testing.T) {
	repo, mr := newRedisRepo(t)
	mr.Close()

	_, err := repo.Revoke(context.Background(), "jti-1", "u-1", time.Now().Add(time.Minute))
	assert.ErrorContains(t, err, "redis error")

	_, err = repo.IsRevoked(context.Background(), "jti-1")
	assert.ErrorContains(t, err, "redis error")
}
