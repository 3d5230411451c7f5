package repository

import (
	"context"
	"errors"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// WriteFunc queues the writes of an optimistic transaction. It runs inside
// MULTI/EXEC, so every queued command is applied or none is.
type WriteFunc func(pipe redis.Pipeliner) error

// TxFunc reads the watched state through tx, validates it and returns the
// writes to commit. Returning an error aborts without writing.
type TxFunc func(ctx context.Context, tx *redis.Tx) (WriteFunc, error)

// Store is the thin layer over the key-value store shared by all repositories.
type Store struct {
	client     redis.UniversalClient
	maxRetries int
}

func NewStore(client redis.UniversalClient, maxRetries int) *Store {
	if maxRetries <= 0 {
		maxRetries = 16
	}
	return &Store{client: client, maxRetries: maxRetries}
}

func (s *Store) Client() redis.UniversalClient {
	return s.client
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return domain.StoreError("ping", err)
	}
	return nil
}

// Atomic runs fn with WATCH on keys and commits its writes with MULTI/EXEC.
// If any watched key changes before EXEC the whole read-validate-write cycle is
// retried; after maxRetries attempts it gives up with domain.ErrConflict.
func (s *Store) Atomic(ctx context.Context, keys []string, fn TxFunc) error {
	txf := func(tx *redis.Tx) error {
		write, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		if write == nil {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return write(pipe)
		})
		return err
	}

	for i := 0; i < s.maxRetries; i++ {
		err := s.client.Watch(ctx, txf, keys...)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case isDomainError(err):
			return err
		default:
			return domain.StoreError("atomic", err)
		}
	}
	return domain.ErrConflict
}

// Incr atomically increments a counter key and returns the new value.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, domain.StoreError("incr "+key, err)
	}
	return n, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidAmount,
		domain.ErrInsufficientFunds,
		domain.ErrNotMatured,
		domain.ErrStoreUnavailable,
		domain.ErrMalformedRequest,
		domain.ErrInvalidDepositType,
		domain.ErrInvalidTerm,
		domain.ErrConflict,
		domain.ErrSameAccount,
		domain.ErrInvalidCredentials,
		domain.ErrSessionExpired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// readString returns ("", false, nil) when the key is absent.
func readString(ctx context.Context, c redis.Cmdable, key string) (string, bool, error) {
	v, err := c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.StoreError("get "+key, err)
	}
	return v, true, nil
}
