package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"banking-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Records are stored as JSON objects with named fields. Free-text values
// (usernames, descriptions) are escaped by the encoder, so they can never
// shift the position of another field.

type accountRecord struct {
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	AccountType int             `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

type transactionRecord struct {
	ID           string          `json:"id"`
	Type         int             `json:"type"`
	Username     string          `json:"username"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	Timestamp    int64           `json:"timestamp"`
}

type depositRecord struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Amount      decimal.Decimal `json:"amount"`
	Type        int             `json:"type"`
	Term        int             `json:"term"`
	DepositTime int64           `json:"deposit_time"`
}

var errMissingKey = errors.New("record has no primary key")

func EncodeAccount(a *domain.Account) (string, error) {
	b, err := json.Marshal(accountRecord{
		Username:    a.Username,
		Password:    a.Password,
		AccountType: int(a.AccountType),
		Balance:     a.Balance,
	})
	if err != nil {
		return "", fmt.Errorf("encode account: %w", err)
	}
	return string(b), nil
}

func DecodeAccount(s string) (*domain.Account, error) {
	var r accountRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, domain.StoreError("decode account", err)
	}
	if r.Username == "" {
		return nil, domain.StoreError("decode account", errMissingKey)
	}
	return &domain.Account{
		Username:    r.Username,
		Password:    r.Password,
		AccountType: domain.AccountType(r.AccountType),
		Balance:     r.Balance,
	}, nil
}

func EncodeTransaction(t *domain.TransactionRecord) (string, error) {
	b, err := json.Marshal(transactionRecord{
		ID:           t.ID,
		Type:         int(t.Type),
		Username:     t.Username,
		Counterparty: t.Counterparty,
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		Timestamp:    t.Timestamp.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("encode transaction: %w", err)
	}
	return string(b), nil
}

func DecodeTransaction(s string) (*domain.TransactionRecord, error) {
	var r transactionRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, domain.StoreError("decode transaction", err)
	}
	if r.ID == "" {
		return nil, domain.StoreError("decode transaction", errMissingKey)
	}
	return &domain.TransactionRecord{
		ID:           r.ID,
		Type:         domain.TransactionType(r.Type),
		Username:     r.Username,
		Counterparty: r.Counterparty,
		Amount:       r.Amount,
		BalanceAfter: r.BalanceAfter,
		Description:  r.Description,
		Timestamp:    time.Unix(r.Timestamp, 0),
	}, nil
}

func EncodeDeposit(d *domain.Deposit) (string, error) {
	b, err := json.Marshal(depositRecord{
		ID:          d.ID,
		Username:    d.Username,
		Amount:      d.Amount,
		Type:        int(d.Type),
		Term:        int(d.Term),
		DepositTime: d.DepositTime.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("encode deposit: %w", err)
	}
	return string(b), nil
}

func DecodeDeposit(s string) (*domain.Deposit, error) {
	var r depositRecord
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, domain.StoreError("decode deposit", err)
	}
	if r.ID == "" {
		return nil, domain.StoreError("decode deposit", errMissingKey)
	}
	return &domain.Deposit{
		ID:          r.ID,
		Username:    r.Username,
		Amount:      r.Amount,
		Type:        domain.DepositType(r.Type),
		Term:        domain.DepositTerm(r.Term),
		DepositTime: time.Unix(r.DepositTime, 0),
	}, nil
}
