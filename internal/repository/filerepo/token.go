package filerepo

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type storedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenRepo keeps each slot in its own 0600 file under dir.
type TokenRepo struct {
	dir string
	now func() time.Time
}

func New(dir string) *TokenRepo {
	return &TokenRepo{
		dir: dir,
		now: time.Now,
	}
}

func (r *TokenRepo) path(key string) string {
	return filepath.Join(r.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".token")
}

func (r *TokenRepo) Load(ctx context.Context, key string) (string, error) {
	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	// An unreadable file is an empty slot.
	var stored storedToken
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", r.Clear(ctx, key)
	}

	if !stored.ExpiresAt.IsZero() && !r.now().Before(stored.ExpiresAt) {
		return "", r.Clear(ctx, key)
	}

	return stored.Token, nil
}

func (r *TokenRepo) Save(ctx context.Context, key string, token string, ttl time.Duration) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	stored := storedToken{Token: token}
	if ttl > 0 {
		stored.ExpiresAt = r.now().Add(ttl)
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	tmp := r.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path(key))
}

func (r *TokenRepo) Clear(ctx context.Context, key string) error {
	err := os.Remove(r.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
