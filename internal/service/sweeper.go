package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredTokenDeleter is a token store that keeps expired rows until they
// are deleted explicitly.
type ExpiredTokenDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// StartTokenSweeper deletes expired session tokens every interval until
// ctx is done.
func StartTokenSweeper(ctx context.Context, logger *zap.Logger, tokens ExpiredTokenDeleter, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.DeleteExpired(ctx)
			if err != nil {
				logger.Sugar().Errorf("failed to delete expired session tokens: %s", err.Error())
				continue
			}
			if n > 0 {
				logger.Sugar().Infof("Deleted %d expired session tokens", n)
			}
		}
	}
}
