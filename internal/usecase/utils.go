package usecase

import (
	"context"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/lock"
	"banking-service/internal/pub"

	"go.uber.org/zap"
)

// Clock returns the current time. Tests replace it to move time forward.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

// acquire takes the per-username locks for the duration of one operation.
func acquire(ctx context.Context, locker lock.Locker, usernames ...string) (lock.Unlock, error) {
	unlock, err := locker.Lock(ctx, usernames...)
	if err != nil {
		return nil, domain.StoreError("lock", err)
	}
	return unlock, nil
}

// publish emits an event after commit. Failures are logged and swallowed.
func publish(ctx context.Context, p pub.Publisher, logger *zap.Logger, event *domain.TransactionEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish transaction event",
			zap.String("event_type", event.EventType),
			zap.String("username", event.Username),
			zap.Error(err),
		)
	}
}
