package repository

import (
	"context"
	"testing"

	"banking-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreateAndRoster(t *testing.T) {
	store, mr := newTestStore(t, 4)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "alice", Password: "pw", AccountType: domain.AccountTypeIndividual}))
	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "bob", Password: "pw", AccountType: domain.AccountTypePublic}))

	err := repo.Create(ctx, &domain.Account{Username: "alice", Password: "other"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	mr.CheckList(t, "users", "alice", "bob")
	assert.True(t, mr.Exists("user:alice"))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Password)
	assert.True(t, got.Balance.IsZero())
}

func TestAccountGetMissing(t *testing.T) {
	store, _ := newTestStore(t, 4)
	repo := NewAccountRepo(store)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountGetManySkipsMissing(t *testing.T) {
	store, _ := newTestStore(t, 4)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Account{Username: "alice", Password: "pw"}))
	a, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	a.Balance = decimal.RequireFromString("12.50")
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.GetMany(ctx, []string{"alice", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "12.5", got["alice"].Balance.String())
}

func TestCodecKeepsDelimiterCharacters(t *testing.T) {
	rec := &domain.TransactionRecord{
		ID:          "TX-20240101-000001",
		Type:        domain.TransactionTypeTransferOut,
		Username:    "a|b",
		Description: `pay "rent"|march`,
		Amount:      decimal.NewFromInt(5),
	}
	s, err := EncodeTransaction(rec)
	require.NoError(t, err)

	got, err := DecodeTransaction(s)
	require.NoError(t, err)
	assert.Equal(t, rec.Username, got.Username)
	assert.Equal(t, rec.Description, got.Description)
	assert.Equal(t, domain.TransactionTypeTransferOut, got.Type)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeAccount("alice|pw|1|0")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = DecodeDeposit(`{"username":"alice"}`)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
