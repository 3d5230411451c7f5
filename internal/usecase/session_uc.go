package usecase

import (
	"context"
	"crypto/rand"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/repository"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const DefaultSessionTTL = 2 * time.Hour

// SessionUsecase issues opaque login tokens. A session is an explicit value
// handed back to the caller; it is validated against the clock on every use.
type SessionUsecase struct {
	accounts    *AccountUsecase
	sessionRepo repository.SessionRepository
	ttl         time.Duration
	now         Clock
	logger      *zap.Logger
}

func NewSessionUsecase(accounts *AccountUsecase, sessionRepo repository.SessionRepository, ttl time.Duration, now Clock, logger *zap.Logger) *SessionUsecase {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionUsecase{
		accounts:    accounts,
		sessionRepo: sessionRepo,
		ttl:         ttl,
		now:         clockOrDefault(now),
		logger:      logger,
	}
}

// Login checks credentials and starts a session.
func (uc *SessionUsecase) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	ok, err := uc.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		uc.logger.Info("login failed", zap.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	s := &domain.Session{
		Token:     ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessionRepo.Save(ctx, s, uc.ttl); err != nil {
		return nil, err
	}
	uc.logger.Info("session created", zap.String("username", username))
	return s, nil
}

// Validate returns the live session for token and slides its expiry forward.
func (uc *SessionUsecase) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrMalformedRequest
	}
	s, err := uc.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if s.Expired(now) {
		if err := uc.sessionRepo.Delete(ctx, token); err != nil {
			uc.logger.Warn("failed to drop expired session", zap.Error(err))
		}
		return nil, domain.ErrSessionExpired
	}

	s.ExpiresAt = now.Add(uc.ttl)
	if err := uc.sessionRepo.Save(ctx, s, uc.ttl); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout revokes the session. Unknown tokens are not an error.
func (uc *SessionUsecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrMalformedRequest
	}
	return uc.sessionRepo.Delete(ctx, token)
}
