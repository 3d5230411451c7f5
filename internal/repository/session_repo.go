package repository

import (
	"context"
	"encoding/json"
	"time"

	"banking-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps login sessions at session:<token> with a store-side
// expiry matching the session's own ExpiresAt.
type SessionRepository interface {
	Save(ctx context.Context, s *domain.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepo struct {
	store *Store
}

func NewSessionRepo(store *Store) SessionRepository {
	return &sessionRepo{store: store}
}

func (r *sessionRepo) Save(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	key := SessionKey(s.Token)
	_, err = r.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return domain.StoreError("save session", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	v, ok, err := readString(ctx, r.store.client, SessionKey(token))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(v), &s); err != nil {
		return nil, domain.StoreError("decode session", err)
	}
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	if err := r.store.client.Del(ctx, SessionKey(token)).Err(); err != nil {
		return domain.StoreError("delete session", err)
	}
	return nil
}
