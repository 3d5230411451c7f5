package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of ledger line.
type TransactionType int

const (
	TransactionTypeDeposit     TransactionType = 1
	TransactionTypeWithdrawal  TransactionType = 2
	TransactionTypeTransferIn  TransactionType = 3
	TransactionTypeTransferOut TransactionType = 4
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdrawal:
		return "withdrawal"
	case TransactionTypeTransferIn:
		return "transfer_in"
	case TransactionTypeTransferOut:
		return "transfer_out"
	default:
		return "unknown"
	}
}

// TransactionRecord is one immutable ledger line for one account.
type TransactionRecord struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	Username     string          `json:"username"`
	Counterparty string          `json:"counterparty,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	Timestamp    time.Time       `json:"timestamp"`
}
