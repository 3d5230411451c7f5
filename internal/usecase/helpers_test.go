package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/lock"
	"banking-service/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.TransactionEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e *domain.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type fixture struct {
	mr       *miniredis.Miniredis
	clock    *fakeClock
	events   *recordingPublisher
	ids      *TransactionIDGenerator
	accounts *AccountUsecase
	ledger   *TransactionUsecase
	deposits *DepositUsecase
	sessions *SessionUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	store := repository.NewStore(client, 0)
	accountRepo := repository.NewAccountRepo(store)
	txRepo := repository.NewTransactionRepo(store)
	depositRepo := repository.NewDepositRepo(store)
	sessionRepo := repository.NewSessionRepo(store)

	clock := newFakeClock()
	events := &recordingPublisher{}
	locker := lock.NewLocalLocker()

	ids, err := NewTransactionIDGenerator(context.Background(), txRepo, clock.Now)
	require.NoError(t, err)

	accounts := NewAccountUsecase(accountRepo, logger)
	return &fixture{
		mr:       mr,
		clock:    clock,
		events:   events,
		ids:      ids,
		accounts: accounts,
		ledger:   NewTransactionUsecase(store, accountRepo, txRepo, ids, locker, events, clock.Now, logger),
		deposits: NewDepositUsecase(store, accountRepo, depositRepo, txRepo, ids, locker, events, clock.Now, logger),
		sessions: NewSessionUsecase(accounts, sessionRepo, DefaultSessionTTL, clock.Now, logger),
	}
}

// funded registers username and deposits amount into it.
func (f *fixture) funded(t *testing.T, username string, amount int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.accounts.Register(ctx, username, "pw", domain.AccountTypeIndividual))
	if amount > 0 {
		_, err := f.ledger.Deposit(ctx, username, decimal.NewFromInt(amount))
		require.NoError(t, err)
	}
}

func (f *fixture) balance(t *testing.T, username string) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), username)
	require.NoError(t, err)
	return b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
