package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis builds the client and waits for the server with exponential
// backoff, giving up after maxRetries pings.
func ConnectRedis(ctx context.Context, cfg *AppConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	const maxRetries = 5
	delay := 500 * time.Millisecond

	var err error
	for i := 1; i <= maxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
			return rdb, nil
		}

		logger.Warn("redis ping failed",
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				_ = rdb.Close()
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
}
