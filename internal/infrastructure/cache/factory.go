package cache

import (
	"github.com/invtrack/backend/internal/domain/shared"
	"github.com/invtrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore returns a Redis-backed store when Redis is enabled,
// falling back to the in-memory store otherwise
func NewIdempotencyStore(cfg *config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Enabled {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store, nil
}
