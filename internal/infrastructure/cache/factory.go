package cache

import (
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks the Redis store when a client is available and
// falls back to the in-memory store otherwise
func NewIdempotencyStore(client redis.UniversalClient, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client != nil {
		logger.Info("using Redis notification idempotency store")
		return NewRedisIdempotencyStore(client, DefaultKeyPrefix)
	}
	logger.Warn("Redis disabled, notification idempotency is local to this instance")
	return NewInMemoryIdempotencyStore(0)
}
