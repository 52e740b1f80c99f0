// Package sqlite keeps session tokens in a local SQLite file, for single
// node deployments without Redis or PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sessionTokensTableSQL = `CREATE TABLE IF NOT EXISTS session_tokens (
	slot TEXT PRIMARY KEY,
	token TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0
);`

type TokenRepo struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the database file and its directory when missing.
func Open(dsn string) (*TokenRepo, error) {
	if dir := filepath.Dir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(sessionTokensTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session_tokens table: %w", err)
	}

	return &TokenRepo{
		db:  db,
		now: time.Now,
	}, nil
}

func (r *TokenRepo) Close() error {
	return r.db.Close()
}

func (r *TokenRepo) Load(ctx context.Context, key string) (string, error) {
	var token string
	if err := r.db.QueryRowContext(
		ctx,
		"SELECT token FROM session_tokens WHERE slot = ? AND (expires_at = 0 OR expires_at > ?)",
		key,
		r.now().Unix(),
	).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return token, nil
}

func (r *TokenRepo) Save(ctx context.Context, key string, token string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = r.now().Add(ttl).Unix()
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO session_tokens (slot, token, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at`,
		key,
		token,
		expiresAt,
	)
	return err
}

func (r *TokenRepo) Clear(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM session_tokens WHERE slot = ?", key)
	return err
}

func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		"DELETE FROM session_tokens WHERE expires_at != 0 AND expires_at <= ?",
		r.now().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
