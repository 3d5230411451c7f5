package repository

import (
	"context"
	"errors"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// AccountRepository persists accounts at user:<username> and keeps the roster
// list at users.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, username string) (*domain.Account, error)
	Load(ctx context.Context, c redis.Cmdable, username string) (*domain.Account, error)
	Save(ctx context.Context, a *domain.Account) error
	QueueSave(ctx context.Context, pipe redis.Pipeliner, a *domain.Account) error
	ListUsernames(ctx context.Context) ([]string, error)
	GetMany(ctx context.Context, usernames []string) (map[string]*domain.Account, error)
}

type accountRepo struct {
	store *Store
}

func NewAccountRepo(store *Store) AccountRepository {
	return &accountRepo{store: store}
}

// Create writes the account and appends it to the roster in one transaction.
// It fails with domain.ErrUserAlreadyExists if the key is already taken.
func (r *accountRepo) Create(ctx context.Context, a *domain.Account) error {
	key := UserKey(a.Username)
	return r.store.Atomic(ctx, []string{key}, func(ctx context.Context, tx *redis.Tx) (WriteFunc, error) {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return nil, domain.StoreError("exists "+key, err)
		}
		if n > 0 {
			return nil, domain.ErrUserAlreadyExists
		}
		return func(pipe redis.Pipeliner) error {
			if err := r.QueueSave(ctx, pipe, a); err != nil {
				return err
			}
			pipe.RPush(ctx, UsersKey(), a.Username)
			return nil
		}, nil
	})
}

func (r *accountRepo) Get(ctx context.Context, username string) (*domain.Account, error) {
	return r.Load(ctx, r.store.client, username)
}

// Load reads through c, which may be a watched *redis.Tx.
func (r *accountRepo) Load(ctx context.Context, c redis.Cmdable, username string) (*domain.Account, error) {
	v, ok, err := readString(ctx, c, UserKey(username))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return DecodeAccount(v)
}

// Save overwrites the record unconditionally (last writer wins). Money
// movements go through Store.Atomic instead.
func (r *accountRepo) Save(ctx context.Context, a *domain.Account) error {
	v, err := EncodeAccount(a)
	if err != nil {
		return err
	}
	if err := r.store.client.Set(ctx, UserKey(a.Username), v, 0).Err(); err != nil {
		return domain.StoreError("set account", err)
	}
	return nil
}

func (r *accountRepo) QueueSave(ctx context.Context, pipe redis.Pipeliner, a *domain.Account) error {
	v, err := EncodeAccount(a)
	if err != nil {
		return err
	}
	pipe.Set(ctx, UserKey(a.Username), v, 0)
	return nil
}

func (r *accountRepo) ListUsernames(ctx context.Context) ([]string, error) {
	names, err := r.store.client.LRange(ctx, UsersKey(), 0, -1).Result()
	if err != nil {
		return nil, domain.StoreError("lrange users", err)
	}
	return names, nil
}

// GetMany fetches the given accounts in one pipelined round-trip. Missing
// accounts are skipped.
func (r *accountRepo) GetMany(ctx context.Context, usernames []string) (map[string]*domain.Account, error) {
	out := make(map[string]*domain.Account, len(usernames))
	if len(usernames) == 0 {
		return out, nil
	}

	cmds := make([]*redis.StringCmd, len(usernames))
	_, err := r.store.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, u := range usernames {
			cmds[i] = pipe.Get(ctx, UserKey(u))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, domain.StoreError("get accounts", err)
	}

	for i, cmd := range cmds {
		v, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, domain.StoreError("get account", err)
		}
		a, err := DecodeAccount(v)
		if err != nil {
			return nil, err
		}
		out[usernames[i]] = a
	}
	return out, nil
}
