package redisrepo

import (
	"context"
	"time"
)

type RateLimitRepo struct {
	def Default
}

// Allow counts one attempt for key inside a fixed window.
func (r *RateLimitRepo) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	n, err := r.def.IncrWithTTL(ctx, LoginAttemptsKey(key), window)
	if err != nil {
		return true, err
	}

	return n <= limit, nil
}
