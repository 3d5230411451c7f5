package repository

import (
	"context"
	"strconv"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// TransactionRepository stores the append-only ledger at
// user:transactions:<username> and the global counter at transaction:counter.
type TransactionRepository interface {
	QueueAppend(ctx context.Context, pipe redis.Pipeliner, rec *domain.TransactionRecord) error
	ListByUser(ctx context.Context, username string) ([]*domain.TransactionRecord, error)
	NextSequence(ctx context.Context) (int64, error)
	CurrentSequence(ctx context.Context) (int64, error)
}

type transactionRepo struct {
	store *Store
}

func NewTransactionRepo(store *Store) TransactionRepository {
	return &transactionRepo{store: store}
}

func (r *transactionRepo) QueueAppend(ctx context.Context, pipe redis.Pipeliner, rec *domain.TransactionRecord) error {
	v, err := EncodeTransaction(rec)
	if err != nil {
		return err
	}
	pipe.RPush(ctx, UserTransactionsKey(rec.Username), v)
	return nil
}

// ListByUser returns the user's ledger lines in insertion order.
func (r *transactionRepo) ListByUser(ctx context.Context, username string) ([]*domain.TransactionRecord, error) {
	vals, err := r.store.client.LRange(ctx, UserTransactionsKey(username), 0, -1).Result()
	if err != nil {
		return nil, domain.StoreError("lrange transactions", err)
	}
	out := make([]*domain.TransactionRecord, 0, len(vals))
	for _, v := range vals {
		rec, err := DecodeTransaction(v)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *transactionRepo) NextSequence(ctx context.Context) (int64, error) {
	return r.store.Incr(ctx, TransactionCounterKey())
}

// CurrentSequence returns the persisted counter, 0 if it was never written.
func (r *transactionRepo) CurrentSequence(ctx context.Context) (int64, error) {
	v, ok, err := readString(ctx, r.store.client, TransactionCounterKey())
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, domain.StoreError("parse counter", err)
	}
	return n, nil
}
