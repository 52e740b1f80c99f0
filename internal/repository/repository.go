package repository

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-web/internal/repository/postgres"
	"github.com/BloggingApp/post-web/internal/repository/redisrepo"
	"github.com/BloggingApp/post-web/internal/repository/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown session driver")

// TokenSlot persists one session token per key. Load returns "" and a nil
// error when the slot is empty or expired.
type TokenSlot interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key string, token string, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

// TokenExpirer is a token store whose expired rows stay until deleted.
type TokenExpirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

type Repository struct {
	Redis    *redisrepo.RedisRepository
	Postgres *postgres.PostgresRepository
	SQLite   *sqlite.TokenRepo
	Tokens   TokenSlot
}

// New picks the token store for driver. rdb is optional for the postgres
// and sqlite drivers; when present it still backs rate limiting.
func New(driver string, db *pgxpool.Pool, rdb *redis.Client, lite *sqlite.TokenRepo, logger *zap.Logger) (*Repository, error) {
	repo := &Repository{SQLite: lite}
	if rdb != nil {
		repo.Redis = redisrepo.New(rdb)
	}
	if db != nil {
		repo.Postgres = postgres.New(db)
	}

	switch driver {
	case DriverRedis:
		if repo.Redis == nil {
			return nil, errors.New("redis session driver requires a redis client")
		}
		repo.Tokens = repo.Redis.Token
	case DriverPostgres:
		if repo.Postgres == nil {
			return nil, errors.New("postgres session driver requires a database pool")
		}
		repo.Tokens = repo.Postgres.Token
	case DriverSQLite:
		if repo.SQLite == nil {
			return nil, errors.New("sqlite session driver requires an open database")
		}
		repo.Tokens = repo.SQLite
	default:
		return nil, ErrUnknownDriver
	}

	logger.Sugar().Infof("Session tokens are stored in %s", driver)

	return repo, nil
}

// Limiter returns the login rate limiter, or nil when redis is not configured.
func (r *Repository) Limiter() RateLimiter {
	if r.Redis == nil {
		return nil
	}
	return r.Redis.RateLimit
}

// Expirer returns the token store when it needs expired rows swept, or nil
// when tokens expire on their own.
func (r *Repository) Expirer() TokenExpirer {
	expirer, ok := r.Tokens.(TokenExpirer)
	if !ok {
		return nil
	}
	return expirer
}
