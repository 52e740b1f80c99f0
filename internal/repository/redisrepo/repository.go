package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Default interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type RedisRepository struct {
	Default   Default
	Token     *TokenRepo
	RateLimit *RateLimitRepo
}

func New(rdb *redis.Client) *RedisRepository {
	def := newDefaultRepo(rdb)
	return &RedisRepository{
		Default:   def,
		Token:     &TokenRepo{def: def},
		RateLimit: &RateLimitRepo{def: def},
	}
}
