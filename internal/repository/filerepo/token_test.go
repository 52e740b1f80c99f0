package filerepo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(t.TempDir())

	token, err := repo.Load(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, repo.Save(ctx, "default", "abc", time.Hour))
	token, err = repo.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	info, err := os.Stat(repo.path("default"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, repo.Clear(ctx, "default"))
	require.NoError(t, repo.Clear(ctx, "default"))
	token, err = repo.Load(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenRepoExpiry(t *testing.T) {
	ctx := context.Background()
	repo := New(t.TempDir())
	now := time.Now()
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, "default", "abc", time.Minute))

	now = now.Add(2 * time.Minute)
	token, err := repo.Load(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = os.Stat(repo.path("default"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokenRepoDropsUnreadableFile(t *testing.T) {
	ctx := context.Background()
	repo := New(t.TempDir())
	require.NoError(t, os.WriteFile(repo.path("default"), []byte("{not json"), 0o600))

	token, err := repo.Load(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = os.Stat(repo.path("default"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokenRepoSanitizesKeys(t *testing.T) {
	repo := New("/tmp/slots")
	assert.Equal(t, "/tmp/slots/.._.._etc_passwd.token", repo.path("../../etc/passwd"))
}
