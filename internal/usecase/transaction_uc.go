package usecase

import (
	"context"

	"banking-service/internal/domain"
	"banking-service/internal/lock"
	"banking-service/internal/pub"
	"banking-service/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionUsecase moves money in and out of accounts and keeps the ledger.
// Each operation holds the per-username lock and commits balances and ledger
// lines in one MULTI/EXEC.
type TransactionUsecase struct {
	store       *repository.Store
	accountRepo repository.AccountRepository
	txRepo      repository.TransactionRepository
	ids         *TransactionIDGenerator
	locker      lock.Locker
	publisher   pub.Publisher
	now         Clock
	logger      *zap.Logger
}

func NewTransactionUsecase(
	store *repository.Store,
	accountRepo repository.AccountRepository,
	txRepo repository.TransactionRepository,
	ids *TransactionIDGenerator,
	locker lock.Locker,
	publisher pub.Publisher,
	now Clock,
	logger *zap.Logger,
) *TransactionUsecase {
	return &TransactionUsecase{
		store:       store,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		ids:         ids,
		locker:      locker,
		publisher:   publisher,
		now:         clockOrDefault(now),
		logger:      logger,
	}
}

// Deposit credits amount and returns the new balance.
func (uc *TransactionUsecase) Deposit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	rec, err := uc.applySingle(ctx, username, domain.TransactionTypeDeposit, amount, "Deposit", func(acc *domain.Account) error {
		acc.Credit(amount)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	uc.logger.Info("deposit completed", zap.String("username", username), zap.String("tx_id", rec.ID), zap.String("amount", amount.String()))
	publish(ctx, uc.publisher, uc.logger, &domain.TransactionEvent{
		EventType:     domain.EventDepositCompleted,
		Username:      username,
		TransactionID: rec.ID,
		Amount:        amount,
		BalanceAfter:  rec.BalanceAfter,
		Timestamp:     rec.Timestamp,
	})
	return rec.BalanceAfter, nil
}

// Withdraw debits amount and returns the new balance.
func (uc *TransactionUsecase) Withdraw(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	rec, err := uc.applySingle(ctx, username, domain.TransactionTypeWithdrawal, amount, "Withdrawal", func(acc *domain.Account) error {
		return acc.Debit(amount)
	})
	if err != nil {
		return decimal.Zero, err
	}

	uc.logger.Info("withdrawal completed", zap.String("username", username), zap.String("tx_id", rec.ID), zap.String("amount", amount.String()))
	publish(ctx, uc.publisher, uc.logger, &domain.TransactionEvent{
		EventType:     domain.EventWithdrawalCompleted,
		Username:      username,
		TransactionID: rec.ID,
		Amount:        amount,
		BalanceAfter:  rec.BalanceAfter,
		Timestamp:     rec.Timestamp,
	})
	return rec.BalanceAfter, nil
}

// Transfer moves amount from one account to another and returns the sender's
// new balance. Both balances and both ledger lines commit together or not at all.
func (uc *TransactionUsecase) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return decimal.Zero, domain.ErrSameAccount
	}

	unlock, err := acquire(ctx, uc.locker, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	defer unlock()

	var outID, inID string
	var outRec, inRec *domain.TransactionRecord
	keys := []string{repository.UserKey(from), repository.UserKey(to)}
	err = uc.store.Atomic(ctx, keys, func(ctx context.Context, tx *redis.Tx) (repository.WriteFunc, error) {
		sender, err := uc.accountRepo.Load(ctx, tx, from)
		if err != nil {
			return nil, err
		}
		receiver, err := uc.accountRepo.Load(ctx, tx, to)
		if err != nil {
			return nil, err
		}
		if err := sender.Debit(amount); err != nil {
			return nil, err
		}
		receiver.Credit(amount)

		if outID == "" {
			if outID, err = uc.ids.Next(ctx); err != nil {
				return nil, err
			}
			if inID, err = uc.ids.Next(ctx); err != nil {
				return nil, err
			}
		}
		now := uc.now()
		outRec = &domain.TransactionRecord{
			ID:           outID,
			Type:         domain.TransactionTypeTransferOut,
			Username:     from,
			Counterparty: to,
			Amount:       amount,
			BalanceAfter: sender.Balance,
			Description:  "Transfer to " + to,
			Timestamp:    now,
		}
		inRec = &domain.TransactionRecord{
			ID:           inID,
			Type:         domain.TransactionTypeTransferIn,
			Username:     to,
			Counterparty: from,
			Amount:       amount,
			BalanceAfter: receiver.Balance,
			Description:  "Transfer from " + from,
			Timestamp:    now,
		}

		return func(pipe redis.Pipeliner) error {
			if err := uc.accountRepo.QueueSave(ctx, pipe, sender); err != nil {
				return err
			}
			if err := uc.accountRepo.QueueSave(ctx, pipe, receiver); err != nil {
				return err
			}
			if err := uc.txRepo.QueueAppend(ctx, pipe, outRec); err != nil {
				return err
			}
			return uc.txRepo.QueueAppend(ctx, pipe, inRec)
		}, nil
	})
	if err != nil {
		uc.logger.Debug("transfer rejected", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return decimal.Zero, err
	}

	uc.logger.Info("transfer completed",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("amount", amount.String()),
		zap.String("tx_id", outRec.ID),
	)
	publish(ctx, uc.publisher, uc.logger, &domain.TransactionEvent{
		EventType:     domain.EventTransferCompleted,
		Username:      from,
		Counterparty:  to,
		TransactionID: outRec.ID,
		Amount:        amount,
		BalanceAfter:  outRec.BalanceAfter,
		Timestamp:     outRec.Timestamp,
	})
	return outRec.BalanceAfter, nil
}

// GetBalance returns the stored balance.
func (uc *TransactionUsecase) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	acc, err := uc.accountRepo.Get(ctx, username)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

// GetHistory returns the user's ledger lines in insertion order.
func (uc *TransactionUsecase) GetHistory(ctx context.Context, username string) ([]*domain.TransactionRecord, error) {
	return uc.txRepo.ListByUser(ctx, username)
}

// applySingle runs a one-account balance change and appends its ledger line.
func (uc *TransactionUsecase) applySingle(
	ctx context.Context,
	username string,
	typ domain.TransactionType,
	amount decimal.Decimal,
	description string,
	mutate func(acc *domain.Account) error,
) (*domain.TransactionRecord, error) {
	unlock, err := acquire(ctx, uc.locker, username)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var txID string
	var rec *domain.TransactionRecord
	err = uc.store.Atomic(ctx, []string{repository.UserKey(username)}, func(ctx context.Context, tx *redis.Tx) (repository.WriteFunc, error) {
		acc, err := uc.accountRepo.Load(ctx, tx, username)
		if err != nil {
			return nil, err
		}
		if err := mutate(acc); err != nil {
			return nil, err
		}
		if txID == "" {
			if txID, err = uc.ids.Next(ctx); err != nil {
				return nil, err
			}
		}
		rec = &domain.TransactionRecord{
			ID:           txID,
			Type:         typ,
			Username:     username,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Description:  description,
			Timestamp:    uc.now(),
		}
		return func(pipe redis.Pipeliner) error {
			if err := uc.accountRepo.QueueSave(ctx, pipe, acc); err != nil {
				return err
			}
			return uc.txRepo.QueueAppend(ctx, pipe, rec)
		}, nil
	})
	if err != nil {
		uc.logger.Debug("balance change rejected",
			zap.String("username", username),
			zap.String("op", typ.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return rec, nil
}
