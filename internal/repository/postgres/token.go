package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type tokenRepo struct {
	db DBTX
	// now is only consulted for the expiry written by Save.
	now func() time.Time
}

func newTokenRepo(db DBTX) Token {
	return &tokenRepo{
		db:  db,
		now: time.Now,
	}
}

// Load returns "" for a missing or expired slot. A NULL expires_at never
// expires.
func (r *tokenRepo) Load(ctx context.Context, key string) (string, error) {
	var token string
	if err := r.db.QueryRow(
		ctx,
		"SELECT token FROM session_tokens WHERE slot = $1 AND (expires_at IS NULL OR expires_at > now())",
		key,
	).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return token, nil
}

func (r *tokenRepo) Save(ctx context.Context, key string, token string, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = r.now().Add(ttl)
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO session_tokens(slot, token, expires_at) VALUES($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`,
		key,
		token,
		expiresAt,
	)
	return err
}

func (r *tokenRepo) Clear(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM session_tokens WHERE slot = $1", key)
	return err
}

func (r *tokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM session_tokens WHERE expires_at IS NOT NULL AND expires_at <= now()")
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
