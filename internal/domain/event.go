package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published after a money movement commits.
const (
	EventDepositCompleted    = "deposit.completed"
	EventWithdrawalCompleted = "withdrawal.completed"
	EventTransferCompleted   = "transfer.completed"
	EventDepositOpened       = "deposit_account.opened"
	EventDepositWithdrawn    = "deposit_account.withdrawn"
)

// TransactionEvent is the notification emitted for committed balance changes.
type TransactionEvent struct {
	EventType     string          `json:"event_type"`
	Username      string          `json:"username"`
	Counterparty  string          `json:"counterparty,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	DepositID     string          `json:"deposit_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Interest      decimal.Decimal `json:"interest"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Timestamp     time.Time       `json:"timestamp"`
}
