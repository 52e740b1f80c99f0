package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type defaultRepo struct {
	rdb *redis.Client
}

func newDefaultRepo(rdb *redis.Client) Default {
	return &defaultRepo{
		rdb: rdb,
	}
}

func (r *defaultRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *defaultRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.rdb.Get(ctx, key)
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.rdb.Del(ctx, keys...)
}

// IncrWithTTL increments key and (re)arms its expiry in one round trip.
func (r *defaultRepo) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
