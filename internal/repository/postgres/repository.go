package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/BloggingApp/post-web/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the part of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Token interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key string, token string, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PostgresRepository struct {
	Token Token
}

func New(db DBTX) *PostgresRepository {
	return &PostgresRepository{
		Token: newTokenRepo(db),
	}
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
	return pgxpool.New(ctx, dsn)
}

// expires_at is NULL for tokens saved without a ttl.
const (
	sessionTokensTableSQL = `CREATE TABLE IF NOT EXISTS session_tokens (
	slot TEXT PRIMARY KEY,
	token TEXT NOT NULL,
	expires_at TIMESTAMPTZ
);`
	sessionTokensNullableSQL = `ALTER TABLE session_tokens ALTER COLUMN expires_at DROP NOT NULL;`
)

func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, sessionTokensTableSQL); err != nil {
		return fmt.Errorf("create session_tokens table: %w", err)
	}
	if _, err := db.Exec(ctx, sessionTokensNullableSQL); err != nil {
		return fmt.Errorf("alter session_tokens table: %w", err)
	}
	return nil
}
