package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenRepo struct {
	def Default
}

func (r *TokenRepo) Load(ctx context.Context, key string) (string, error) {
	token, err := r.def.Get(ctx, TokenKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return token, nil
}

func (r *TokenRepo) Save(ctx context.Context, key string, token string, ttl time.Duration) error {
	return r.def.Set(ctx, TokenKey(key), token, ttl)
}

func (r *TokenRepo) Clear(ctx context.Context, key string) error {
	return r.def.Del(ctx, TokenKey(key)).Err()
}
