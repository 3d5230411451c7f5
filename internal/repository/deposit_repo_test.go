package repository

import (
	"context"
	"testing"
	"time"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDeposits(t *testing.T, store *Store, repo DepositRepository, username string, n int) []string {
	t.Helper()
	ctx := context.Background()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := repo.NextID(ctx, username)
		require.NoError(t, err)
		d := &domain.Deposit{
			ID:          id,
			Username:    username,
			Amount:      decimal.NewFromInt(100),
			Type:        domain.DepositTypeDemand,
			DepositTime: time.Unix(1700000000, 0),
		}
		_, err = store.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return repo.QueueCreate(ctx, pipe, d)
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestDepositIDsArePerOwner(t *testing.T) {
	store, _ := newTestStore(t, 4)
	repo := NewDepositRepo(store)

	assert.Equal(t, []string{"alice-1", "alice-2"}, createDeposits(t, store, repo, "alice", 2))
	assert.Equal(t, []string{"bob-1"}, createDeposits(t, store, repo, "bob", 1))
}

func TestDepositDeleteRewritesIndex(t *testing.T) {
	store, mr := newTestStore(t, 4)
	repo := NewDepositRepo(store)
	ctx := context.Background()
	createDeposits(t, store, repo, "alice", 3)

	d, err := repo.Get(ctx, "alice", "alice-2")
	require.NoError(t, err)
	index, err := repo.ListIDs(ctx, store.Client(), "alice")
	require.NoError(t, err)

	_, err = store.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		repo.QueueDelete(ctx, pipe, d, index)
		return nil
	})
	require.NoError(t, err)

	mr.CheckList(t, "user:deposits:alice", "alice-1", "alice-3")
	assert.False(t, mr.Exists("deposit:alice:alice-2"))

	_, err = repo.Get(ctx, "alice", "alice-2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDepositDeleteLastClearsIndex(t *testing.T) {
	store, mr := newTestStore(t, 4)
	repo := NewDepositRepo(store)
	ctx := context.Background()
	createDeposits(t, store, repo, "alice", 1)

	d, err := repo.Get(ctx, "alice", "alice-1")
	require.NoError(t, err)
	_, err = store.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		repo.QueueDelete(ctx, pipe, d, []string{"alice-1"})
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("user:deposits:alice"))

	list, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDepositListSkipsDanglingIDs(t *testing.T) {
	store, mr := newTestStore(t, 4)
	repo := NewDepositRepo(store)
	createDeposits(t, store, repo, "alice", 2)
	mr.Del("deposit:alice:alice-1")

	list, err := repo.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice-2", list[0].ID)
	assert.Equal(t, int64(1700000000), list[0].DepositTime.Unix())
}

func TestKeyScheme(t *testing.T) {
	assert.Equal(t, "user:alice", UserKey("alice"))
	assert.Equal(t, "user:transactions:alice", UserTransactionsKey("alice"))
	assert.Equal(t, "user:deposit_counter:alice", UserDepositCounterKey("alice"))
	assert.Equal(t, "user:deposits:alice", UserDepositsKey("alice"))
	assert.Equal(t, "deposit:alice:alice-3", DepositKey("alice", "alice-3"))
	assert.Equal(t, "transaction:counter", TransactionCounterKey())
	assert.Equal(t, "users", UsersKey())
}
