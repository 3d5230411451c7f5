package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType is informational only; no operation branches on it.
type AccountType int

const (
	AccountTypeIndividual     AccountType = 1
	AccountTypePublic         AccountType = 2
	AccountTypeJointSignature AccountType = 3
)

func (t AccountType) String() string {
	switch t {
	case AccountTypeIndividual:
		return "individual"
	case AccountTypePublic:
		return "public"
	case AccountTypeJointSignature:
		return "joint_signature"
	default:
		return "unknown"
	}
}

func (t AccountType) Valid() bool {
	return t >= AccountTypeIndividual && t <= AccountTypeJointSignature
}

// ParseAccountType accepts the numeric code used by the legacy API ("1".."3") or the name.
func ParseAccountType(s string) (AccountType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		t := AccountType(n)
		if !t.Valid() {
			return 0, ErrInvalidAccountType
		}
		return t, nil
	}
	switch s {
	case "individual", "private":
		return AccountTypeIndividual, nil
	case "public":
		return AccountTypePublic, nil
	case "joint", "joint_signature", "joint-signature":
		return AccountTypeJointSignature, nil
	}
	return 0, ErrInvalidAccountType
}

// Account is a user's money account. Username is the primary key.
type Account struct {
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	AccountType AccountType     `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// Debit removes amount from the balance, refusing to go negative.
func (a *Account) Debit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}
