package config

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":8081", cfg.GRPCAddr)
	assert.Equal(t, LockBackendLocal, cfg.LockBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 16, cfg.TxMaxRetries)
	assert.Equal(t, "transaction_events", cfg.EventsChannel)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EVENTS_SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, LockBackendRedis, cfg.LockBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	t.Setenv("LOCK_BACKEND", "zookeeper")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOCK_BACKEND", "local")
	t.Setenv("EVENTS_SINK", "carrier-pigeon")
	_, err = Load()
	assert.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &AppConfig{RedisAddr: mr.Addr()}

	rdb, err := ConnectRedis(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}

func TestConnectRedisHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := ConnectRedis(ctx, &AppConfig{RedisAddr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		logger, err := NewLogger(&AppConfig{Env: env})
		require.NoError(t, err, env)
		assert.NotNil(t, logger)
	}
}
