package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDedupGuard implements DedupGuard with a Redis SetNX lock per
// project+milestone key.
type RedisDedupGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisDedupGuard(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisDedupGuard {
	return &RedisDedupGuard{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce returns true if this caller is the first to claim the key.
// When Redis is unavailable it fails open and allows processing; the
// persisted markers still prevent repeat sends across scan cycles.
func (g *RedisDedupGuard) AcquireOnce(ctx context.Context, key string) bool {
	ok, err := g.rdb.SetNX(ctx, key, 1, g.ttl).Result()
	if err != nil {
		g.logger.Warn("Redis dedup check failed, allowing processing",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}
	return ok
}
