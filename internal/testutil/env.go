// Package testutil wires the usecases against an in-process Redis for tests
// of the transport layers.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"banking-service/internal/lock"
	"banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Clock is a manually advanced clock.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{t: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type Env struct {
	Redis  *miniredis.Miniredis
	Client *redis.Client
	Clock  *Clock

	Accounts *usecase.AccountUsecase
	Ledger   *usecase.TransactionUsecase
	Deposits *usecase.DepositUsecase
	Sessions *usecase.SessionUsecase
}

func NewEnv(t testing.TB) *Env {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	clock := NewClock(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

	store := repository.NewStore(client, 0)
	accountRepo := repository.NewAccountRepo(store)
	txRepo := repository.NewTransactionRepo(store)
	depositRepo := repository.NewDepositRepo(store)
	sessionRepo := repository.NewSessionRepo(store)

	ids, err := usecase.NewTransactionIDGenerator(context.Background(), txRepo, clock.Now)
	if err != nil {
		t.Fatalf("id generator: %v", err)
	}
	locker := lock.NewLocalLocker()
	publisher := pub.NopPublisher{}
	accounts := usecase.NewAccountUsecase(accountRepo, logger)

	return &Env{
		Redis:    mr,
		Client:   client,
		Clock:    clock,
		Accounts: accounts,
		Ledger:   usecase.NewTransactionUsecase(store, accountRepo, txRepo, ids, locker, publisher, clock.Now, logger),
		Deposits: usecase.NewDepositUsecase(store, accountRepo, depositRepo, txRepo, ids, locker, publisher, clock.Now, logger),
		Sessions: usecase.NewSessionUsecase(accounts, sessionRepo, usecase.DefaultSessionTTL, clock.Now, logger),
	}
}
