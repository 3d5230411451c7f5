package pub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"banking-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisPublisherBroadcasts(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, "events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewRedisPublisher(client, "events", zap.NewNop())
	require.NoError(t, p.Publish(ctx, &domain.TransactionEvent{
		EventType:    domain.EventDepositCompleted,
		Username:     "alice",
		Amount:       decimal.NewFromInt(100),
		BalanceAfter: decimal.NewFromInt(100),
		Timestamp:    time.Unix(1700000000, 0),
	}))

	select {
	case msg := <-sub.Channel():
		var got domain.TransactionEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, domain.EventDepositCompleted, got.EventType)
		assert.Equal(t, "alice", got.Username)
		assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestKafkaPublisherFailsWithoutBroker(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "banking.transactions", zap.NewNop())
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err := p.Publish(ctx, &domain.TransactionEvent{EventType: domain.EventDepositCompleted, Username: "alice"})
	assert.Error(t, err)
}
