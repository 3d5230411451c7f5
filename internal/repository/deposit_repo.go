package repository

import (
	"context"
	"errors"
	"strconv"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// DepositRepository stores deposits at deposit:<username>:<id>, the owner's
// index list at user:deposits:<username> and the per-owner sequence at
// user:deposit_counter:<username>.
type DepositRepository interface {
	NextID(ctx context.Context, username string) (string, error)
	Get(ctx context.Context, username, id string) (*domain.Deposit, error)
	Load(ctx context.Context, c redis.Cmdable, username, id string) (*domain.Deposit, error)
	ListIDs(ctx context.Context, c redis.Cmdable, username string) ([]string, error)
	ListByUser(ctx context.Context, username string) ([]*domain.Deposit, error)
	QueueCreate(ctx context.Context, pipe redis.Pipeliner, d *domain.Deposit) error
	QueueSave(ctx context.Context, pipe redis.Pipeliner, d *domain.Deposit) error
	QueueDelete(ctx context.Context, pipe redis.Pipeliner, d *domain.Deposit, index []string)
}

type depositRepo struct {
	store *Store
}

func NewDepositRepo(store *Store) DepositRepository {
	return &depositRepo{store: store}
}

// NextID mints the owner's next deposit id, "<username>-<n>" with n starting at 1.
func (r *depositRepo) NextID(ctx context.Context, username string) (string, error) {
	n, err := r.store.Incr(ctx, UserDepositCounterKey(username))
	if err != nil {
		return "", err
	}
	return username + "-" + strconv.FormatInt(n, 10), nil
}

func (r *depositRepo) Get(ctx context.Context, username, id string) (*domain.Deposit, error) {
	return r.Load(ctx, r.store.client, username, id)
}

func (r *depositRepo) Load(ctx context.Context, c redis.Cmdable, username, id string) (*domain.Deposit, error) {
	v, ok, err := readString(ctx, c, DepositKey(username, id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDepositNotFound
	}
	return DecodeDeposit(v)
}

func (r *depositRepo) ListIDs(ctx context.Context, c redis.Cmdable, username string) ([]string, error) {
	ids, err := c.LRange(ctx, UserDepositsKey(username), 0, -1).Result()
	if err != nil {
		return nil, domain.StoreError("lrange deposits", err)
	}
	return ids, nil
}

// ListByUser resolves the owner's index in order. Ids whose record is gone are
// skipped.
func (r *depositRepo) ListByUser(ctx context.Context, username string) ([]*domain.Deposit, error) {
	ids, err := r.ListIDs(ctx, r.store.client, username)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Deposit{}, nil
	}

	cmds := make([]*redis.StringCmd, len(ids))
	_, err = r.store.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.Get(ctx, DepositKey(username, id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, domain.StoreError("get deposits", err)
	}

	out := make([]*domain.Deposit, 0, len(ids))
	for _, cmd := range cmds {
		v, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, domain.StoreError("get deposit", err)
		}
		d, err := DecodeDeposit(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// QueueCreate writes the record and appends its id to the owner's index.
func (r *depositRepo) QueueCreate(ctx context.Context, pipe redis.Pipeliner, d *domain.Deposit) error {
	if err := r.QueueSave(ctx, pipe, d); err != nil {
		return err
	}
	pipe.RPush(ctx, UserDepositsKey(d.Username), d.ID)
	return nil
}

func (r *depositRepo) QueueSave(ctx context.Context, pipe redis.Pipeliner, d *domain.Deposit) error {
	v, err := EncodeDeposit(d)
	if err != nil {
		return err
	}
	pipe.Set(ctx, DepositKey(d.Username, d.ID), v, 0)
	return nil
}

// QueueDelete removes the record and rewrites the owner's index without d.ID.
// index is the list as read under WATCH; since the rewrite is queued inside
// MULTI, readers never observe the emptied list.
func (r *depositRepo) QueueDelete(ctx context.Context, pipe redis.Pipeliner, d *domain.Deposit, index []string) {
	key := UserDepositsKey(d.Username)
	pipe.Del(ctx, DepositKey(d.Username, d.ID))
	pipe.Del(ctx, key)

	remaining := make([]interface{}, 0, len(index))
	for _, id := range index {
		if id != d.ID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) > 0 {
		pipe.RPush(ctx, key, remaining...)
	}
}
