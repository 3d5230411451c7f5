package usecase

import (
	"context"
	"errors"

	"banking-service/internal/domain"
	"banking-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const listAllBatchSize = 100

type AccountUsecase struct {
	accountRepo repository.AccountRepository
	logger      *zap.Logger
}

// NewAccountUsecase initializes a new AccountUsecase
func NewAccountUsecase(accountRepo repository.AccountRepository, logger *zap.Logger) *AccountUsecase {
	return &AccountUsecase{accountRepo: accountRepo, logger: logger}
}

// Register creates an account with a zero balance and adds it to the roster.
func (uc *AccountUsecase) Register(ctx context.Context, username, password string, accountType domain.AccountType) error {
	if !domain.ValidUsername(username) {
		return domain.ErrInvalidUsername
	}
	if password == "" {
		return domain.ErrMalformedRequest
	}
	if !accountType.Valid() {
		return domain.ErrInvalidAccountType
	}

	acc := &domain.Account{
		Username:    username,
		Password:    password,
		AccountType: accountType,
		Balance:     decimal.Zero,
	}
	if err := uc.accountRepo.Create(ctx, acc); err != nil {
		return err
	}
	uc.logger.Info("account registered",
		zap.String("username", username),
		zap.String("account_type", accountType.String()),
	)
	return nil
}

// Authenticate compares the stored credential with the supplied one. A missing
// account is an authentication failure, not an error.
func (uc *AccountUsecase) Authenticate(ctx context.Context, username, password string) (bool, error) {
	acc, err := uc.accountRepo.Get(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return acc.Password == password, nil
}

// Fetch returns a fresh copy of the account.
func (uc *AccountUsecase) Fetch(ctx context.Context, username string) (*domain.Account, error) {
	return uc.accountRepo.Get(ctx, username)
}

// Save overwrites the stored record unconditionally (last writer wins). Money
// movements go through the ledger instead, which serializes per account.
func (uc *AccountUsecase) Save(ctx context.Context, acc *domain.Account) error {
	return uc.accountRepo.Save(ctx, acc)
}

// ListAll snapshots every account on the roster. Batches are fetched in
// parallel; the result is not atomic across entries.
func (uc *AccountUsecase) ListAll(ctx context.Context) (map[string]*domain.Account, error) {
	usernames, err := uc.accountRepo.ListUsernames(ctx)
	if err != nil {
		return nil, err
	}

	batches := make([]map[string]*domain.Account, (len(usernames)+listAllBatchSize-1)/listAllBatchSize)
	g, gctx := errgroup.WithContext(ctx)
	for i := range batches {
		start := i * listAllBatchSize
		end := min(start+listAllBatchSize, len(usernames))
		g.Go(func() error {
			accs, err := uc.accountRepo.GetMany(gctx, usernames[start:end])
			if err != nil {
				return err
			}
			batches[i] = accs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*domain.Account, len(usernames))
	for _, b := range batches {
		for k, v := range b {
			out[k] = v
		}
	}
	return out, nil
}
