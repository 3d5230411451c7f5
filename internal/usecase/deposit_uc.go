package usecase

import (
	"context"
	"fmt"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/lock"
	"banking-service/internal/pub"
	"banking-service/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DepositUsecase struct {
	store       *repository.Store
	accountRepo repository.AccountRepository
	depositRepo repository.DepositRepository
	txRepo      repository.TransactionRepository
	ids         *TransactionIDGenerator
	locker      lock.Locker
	publisher   pub.Publisher
	now         Clock
	logger      *zap.Logger
}

func NewDepositUsecase(
	store *repository.Store,
	accountRepo repository.AccountRepository,
	depositRepo repository.DepositRepository,
	txRepo repository.TransactionRepository,
	ids *TransactionIDGenerator,
	locker lock.Locker,
	publisher pub.Publisher,
	now Clock,
	logger *zap.Logger,
) *DepositUsecase {
	return &DepositUsecase{
		store:       store,
		accountRepo: accountRepo,
		depositRepo: depositRepo,
		txRepo:      txRepo,
		ids:         ids,
		locker:      locker,
		publisher:   publisher,
		now:         clockOrDefault(now),
		logger:      logger,
	}
}

// WithdrawResult describes a settled deposit withdrawal.
type WithdrawResult struct {
	Balance  decimal.Decimal
	Interest decimal.Decimal
	Credited decimal.Decimal
	Closed   bool
}

// Now exposes the usecase clock so callers render elapsed time consistently.
func (uc *DepositUsecase) Now() time.Time {
	return uc.now()
}

// CreateDeposit moves amount from the owner's balance into a new deposit.
// term is ignored for demand deposits.
func (uc *DepositUsecase) CreateDeposit(
	ctx context.Context,
	username string,
	amount decimal.Decimal,
	typ domain.DepositType,
	term domain.DepositTerm,
) (*domain.Deposit, decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, decimal.Zero, err
	}
	switch typ {
	case domain.DepositTypeDemand:
		term = 0
	case domain.DepositTypeTerm:
		if !amount.GreaterThan(domain.TermDepositMinimum) {
			return nil, decimal.Zero, domain.ErrBelowMinimum
		}
		if !term.Valid() {
			return nil, decimal.Zero, domain.ErrInvalidTerm
		}
	default:
		return nil, decimal.Zero, domain.ErrInvalidDepositType
	}

	unlock, err := acquire(ctx, uc.locker, username)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer unlock()

	var (
		depositID string
		txID      string
		dep       *domain.Deposit
		rec       *domain.TransactionRecord
	)
	err = uc.store.Atomic(ctx, []string{repository.UserKey(username)}, func(ctx context.Context, tx *redis.Tx) (repository.WriteFunc, error) {
		acc, err := uc.accountRepo.Load(ctx, tx, username)
		if err != nil {
			return nil, err
		}
		if err := acc.Debit(amount); err != nil {
			return nil, err
		}
		if depositID == "" {
			if depositID, err = uc.depositRepo.NextID(ctx, username); err != nil {
				return nil, err
			}
			if txID, err = uc.ids.Next(ctx); err != nil {
				return nil, err
			}
		}
		now := uc.now()
		dep = &domain.Deposit{
			ID:          depositID,
			Username:    username,
			Amount:      amount,
			Type:        typ,
			Term:        term,
			DepositTime: now,
		}
		rec = &domain.TransactionRecord{
			ID:           txID,
			Type:         domain.TransactionTypeWithdrawal,
			Username:     username,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Description:  fmt.Sprintf("Deposit %s opened", depositID),
			Timestamp:    now,
		}
		return func(pipe redis.Pipeliner) error {
			if err := uc.accountRepo.QueueSave(ctx, pipe, acc); err != nil {
				return err
			}
			if err := uc.depositRepo.QueueCreate(ctx, pipe, dep); err != nil {
				return err
			}
			return uc.txRepo.QueueAppend(ctx, pipe, rec)
		}, nil
	})
	if err != nil {
		uc.logger.Debug("create deposit rejected", zap.String("username", username), zap.Error(err))
		return nil, decimal.Zero, err
	}

	uc.logger.Info("deposit account opened",
		zap.String("username", username),
		zap.String("deposit_id", dep.ID),
		zap.String("type", typ.String()),
		zap.String("amount", amount.String()),
	)
	publish(ctx, uc.publisher, uc.logger, &domain.TransactionEvent{
		EventType:     domain.EventDepositOpened,
		Username:      username,
		TransactionID: rec.ID,
		DepositID:     dep.ID,
		Amount:        amount,
		BalanceAfter:  rec.BalanceAfter,
		Timestamp:     rec.Timestamp,
	})
	return dep, rec.BalanceAfter, nil
}

// GetUserDeposits lists the owner's deposits in index order.
func (uc *DepositUsecase) GetUserDeposits(ctx context.Context, username string) ([]*domain.Deposit, error) {
	return uc.depositRepo.ListByUser(ctx, username)
}

func (uc *DepositUsecase) GetDepositDetails(ctx context.Context, username, depositID string) (*domain.Deposit, error) {
	return uc.depositRepo.Get(ctx, username, depositID)
}

// CalculateInterest is the interest the whole principal has earned after elapsedSeconds.
func (uc *DepositUsecase) CalculateInterest(d *domain.Deposit, elapsedSeconds int64) decimal.Decimal {
	return domain.CalculateInterest(d, elapsedSeconds)
}

// WithdrawDeposit settles amount of principal plus its pro-rated interest into
// the owner's balance. Withdrawing the whole principal closes the deposit.
func (uc *DepositUsecase) WithdrawDeposit(ctx context.Context, username, depositID string, amount decimal.Decimal) (*WithdrawResult, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	unlock, err := acquire(ctx, uc.locker, username)
	if err != nil {
		return nil, err
	}
	defer unlock()

	keys := []string{
		repository.UserKey(username),
		repository.DepositKey(username, depositID),
		repository.UserDepositsKey(username),
	}

	var (
		txID   string
		result *WithdrawResult
		rec    *domain.TransactionRecord
	)
	err = uc.store.Atomic(ctx, keys, func(ctx context.Context, tx *redis.Tx) (repository.WriteFunc, error) {
		dep, err := uc.depositRepo.Load(ctx, tx, username, depositID)
		if err != nil {
			return nil, err
		}
		if amount.GreaterThan(dep.Amount) {
			return nil, domain.ErrInvalidAmount
		}
		now := uc.now()
		if !dep.Withdrawable(now) {
			return nil, domain.ErrNotMatured
		}
		acc, err := uc.accountRepo.Load(ctx, tx, username)
		if err != nil {
			return nil, err
		}

		interest := domain.WithdrawalInterest(dep, amount, dep.ElapsedSeconds(now))
		credited := amount.Add(interest)
		acc.Credit(credited)
		closed := amount.Equal(dep.Amount)

		var index []string
		if closed {
			if index, err = uc.depositRepo.ListIDs(ctx, tx, username); err != nil {
				return nil, err
			}
		} else {
			dep.Amount = dep.Amount.Sub(amount)
		}

		if txID == "" {
			if txID, err = uc.ids.Next(ctx); err != nil {
				return nil, err
			}
		}
		rec = &domain.TransactionRecord{
			ID:           txID,
			Type:         domain.TransactionTypeDeposit,
			Username:     username,
			Amount:       credited,
			BalanceAfter: acc.Balance,
			Description:  fmt.Sprintf("Deposit %s withdrawn, interest %s", depositID, interest.StringFixed(domain.MoneyScale)),
			Timestamp:    now,
		}
		result = &WithdrawResult{
			Balance:  acc.Balance,
			Interest: interest,
			Credited: credited,
			Closed:   closed,
		}

		return func(pipe redis.Pipeliner) error {
			if err := uc.accountRepo.QueueSave(ctx, pipe, acc); err != nil {
				return err
			}
			if closed {
				uc.depositRepo.QueueDelete(ctx, pipe, dep, index)
			} else if err := uc.depositRepo.QueueSave(ctx, pipe, dep); err != nil {
				return err
			}
			return uc.txRepo.QueueAppend(ctx, pipe, rec)
		}, nil
	})
	if err != nil {
		uc.logger.Debug("deposit withdrawal rejected",
			zap.String("username", username),
			zap.String("deposit_id", depositID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("deposit withdrawn",
		zap.String("username", username),
		zap.String("deposit_id", depositID),
		zap.String("amount", amount.String()),
		zap.String("interest", result.Interest.String()),
		zap.Bool("closed", result.Closed),
	)
	publish(ctx, uc.publisher, uc.logger, &domain.TransactionEvent{
		EventType:     domain.EventDepositWithdrawn,
		Username:      username,
		TransactionID: rec.ID,
		DepositID:     depositID,
		Amount:        amount,
		Interest:      result.Interest,
		BalanceAfter:  result.Balance,
		Timestamp:     rec.Timestamp,
	})
	return result, nil
}
