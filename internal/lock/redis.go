package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLocker holds lock:<key> entries in the store so several engine
// processes sharing one store serialize on the same usernames. The TTL bounds
// how long a crashed holder can block others.
type RedisLocker struct {
	client  redis.UniversalClient
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
	logger  *zap.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client:  client,
		ttl:     ttl,
		wait:    wait,
		backoff: 5 * time.Millisecond,
		logger:  logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
	ordered := orderedKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(ordered))

	release := func() {
		// releasing must not depend on the caller's context still being alive
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			n, err := releaseScript.Run(rctx, l.client, []string{held[i]}, token).Int()
			if err != nil {
				l.logger.Error("lock release failed", zap.String("key", held[i]), zap.Error(err))
				continue
			}
			if n == 0 {
				l.logger.Warn("lock expired before release", zap.String("key", held[i]), zap.Duration("ttl", l.ttl))
			}
		}
	}

	for _, k := range ordered {
		key := "lock:" + k
		if err := l.acquire(ctx, key, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.wait)
	delay := l.backoff
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s: %w", key, ErrLockTimeout)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if delay < 100*time.Millisecond {
			delay *= 2
		}
	}
}
