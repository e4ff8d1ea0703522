package service

import (
	"context"
	"time"

	"elivtory/inventory-api/internal/store"

	"go.uber.org/zap"
)

// TokenCleanup periodically deletes reset tokens that already expired.
// Lookups ignore expired tokens anyway, this only keeps the table small.
// It returns once ctx is done.
func TokenCleanup(ctx context.Context, t time.Duration, tokens *store.ResetTokens) {
	ticker := time.NewTicker(t)
	defer ticker.Stop()

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := tokens.DeleteExpired(ctx, now.UTC())
			if err != nil {
				zap.L().Error("Failed to cleanup expired reset tokens", zap.Error(err))
				continue
			}

			if n > 0 {
				zap.L().Debug("Cleaned up expired reset tokens", zap.Int64("count", n))
			}
		}
	}
}
