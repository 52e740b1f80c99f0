package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/BloggingApp/post-web/internal/repository"
	"github.com/BloggingApp/post-web/internal/repository/sqlite"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPicksDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repos, err := repository.New(repository.DriverRedis, nil, rdb, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, repos.Redis.Token, repos.Tokens)
	assert.NotNil(t, repos.Limiter())
	assert.Nil(t, repos.Expirer())

	lite, err := sqlite.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lite.Close() })

	repos, err = repository.New(repository.DriverSQLite, nil, nil, lite, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, lite, repos.Tokens)
	assert.Nil(t, repos.Limiter())
	assert.NotNil(t, repos.Expirer())
}

func TestNewRejectsMissingBackend(t *testing.T) {
	_, err := repository.New(repository.DriverRedis, nil, nil, nil, zap.NewNop())
	assert.Error(t, err)

	_, err = repository.New(repository.DriverPostgres, nil, nil, nil, zap.NewNop())
	assert.Error(t, err)

	_, err = repository.New(repository.DriverSQLite, nil, nil, nil, zap.NewNop())
	assert.Error(t, err)

	_, err = repository.New("memcached", nil, nil, nil, zap.NewNop())
	assert.ErrorIs(t, err, repository.ErrUnknownDriver)
}
