package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *TokenRepo {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveLoadClear(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	token, err := repo.Load(ctx, "browser-1")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, repo.Save(ctx, "browser-1", "first", time.Hour))
	require.NoError(t, repo.Save(ctx, "browser-1", "second", 0))

	token, err = repo.Load(ctx, "browser-1")
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	require.NoError(t, repo.Clear(ctx, "browser-1"))
	require.NoError(t, repo.Clear(ctx, "browser-1"))

	token, err = repo.Load(ctx, "browser-1")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestExpiredTokens(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Now()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, "short", "a", time.Minute))
	require.NoError(t, repo.Save(ctx, "forever", "b", 0))

	repo.now = func() time.Time { return now.Add(2 * time.Minute) }

	token, err := repo.Load(ctx, "short")
	require.NoError(t, err)
	assert.Empty(t, token)

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	token, err = repo.Load(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "b", token)
}
