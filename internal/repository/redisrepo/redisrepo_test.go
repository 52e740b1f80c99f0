package redisrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestTokenRepo(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t)

	token, err := repo.Token.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, repo.Token.Save(ctx, "sid", "abc", time.Hour))
	assert.True(t, mr.Exists(TokenKey("sid")))
	assert.Equal(t, time.Hour, mr.TTL(TokenKey("sid")))

	token, err = repo.Token.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	mr.FastForward(2 * time.Hour)
	token, err = repo.Token.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, repo.Token.Save(ctx, "sid", "abc", time.Hour))
	require.NoError(t, repo.Token.Clear(ctx, "sid"))
	assert.False(t, mr.Exists(TokenKey("sid")))
}

func TestRateLimit(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t)

	for i := 0; i < 3; i++ {
		ok, err := repo.RateLimit.Allow(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := repo.RateLimit.Allow(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.RateLimit.Allow(ctx, "10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = repo.RateLimit.Allow(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimitFailsOpen(t *testing.T) {
	repo, mr := newTestRepo(t)
	mr.Close()

	ok, err := repo.RateLimit.Allow(context.Background(), "10.0.0.1", 1, time.Minute)
	assert.Error(t, err)
	assert.True(t, ok)
}
