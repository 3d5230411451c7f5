package pub

import (
	"context"
	"encoding/json"
	"fmt"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannel = "transaction_events"

// Publisher delivers committed transaction events. Delivery is best effort:
// callers log failures and never roll back a committed operation because of one.
type Publisher interface {
	Publish(ctx context.Context, event *domain.TransactionEvent) error
	Close() error
}

// RedisPublisher broadcasts events on a Redis Pub/Sub channel.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
	logger  *zap.Logger
}

func NewRedisPublisher(rdb redis.UniversalClient, channel string, logger *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, event *domain.TransactionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	p.logger.Debug("event published",
		zap.String("event_type", event.EventType),
		zap.String("username", event.Username),
		zap.String("channel", p.channel),
	)
	return nil
}

// Close is a no-op; the Redis client is owned by the server.
func (p *RedisPublisher) Close() error { return nil }

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *domain.TransactionEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
