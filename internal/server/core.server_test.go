package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"banking-service/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().String()
}

func TestServerRunsAndShutsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	require.NoError(t, mr.Set("transaction:counter", "7"))

	cfg := &config.AppConfig{
		HTTPAddr:      freeAddr(t),
		GRPCAddr:      freeAddr(t),
		LockBackend:   config.LockBackendRedis,
		LockTTL:       5 * time.Second,
		LockWait:      time.Second,
		TxMaxRetries:  16,
		SessionTTL:    time.Hour,
		EventsSink:    config.EventsSinkRedis,
		EventsChannel: "transaction_events",
		RateLimit:     1000,
		RateWindow:    time.Minute,
		RateBlock:     time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv, err := New(ctx, cfg, rdb, zap.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	base := fmt.Sprintf("http://%s", cfg.HTTPAddr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.PostForm(base+"/api/register", url.Values{"username": {"alice"}, "password": {"pw"}, "account_type": {"1"}})
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = http.PostForm(base+"/api/deposit", url.Values{"username": {"alice"}, "amount": {"5"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	counter, err := mr.Get("transaction:counter")
	require.NoError(t, err)
	assert.Equal(t, "8", counter, "ids continue from the persisted counter")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
