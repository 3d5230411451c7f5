package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DepositType distinguishes demand deposits from fixed-term deposits.
type DepositType int

const (
	DepositTypeDemand DepositType = 1
	DepositTypeTerm   DepositType = 2
)

func (t DepositType) String() string {
	switch t {
	case DepositTypeDemand:
		return "demand"
	case DepositTypeTerm:
		return "term"
	default:
		return "unknown"
	}
}

// ParseDepositType accepts "1"/"2" or "demand"/"term".
func ParseDepositType(s string) (DepositType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "demand":
		return DepositTypeDemand, nil
	case "2", "term", "time":
		return DepositTypeTerm, nil
	}
	return 0, ErrInvalidDepositType
}

// DepositTerm is a term length in minutes.
type DepositTerm int

const (
	TermTwoMinutes   DepositTerm = 2
	TermThreeMinutes DepositTerm = 3
	TermFiveMinutes  DepositTerm = 5
)

func (t DepositTerm) Valid() bool {
	switch t {
	case TermTwoMinutes, TermThreeMinutes, TermFiveMinutes:
		return true
	}
	return false
}

// Duration returns the term as a time.Duration.
func (t DepositTerm) Duration() time.Duration {
	return time.Duration(t) * time.Minute
}

// ParseDepositTerm accepts the number of minutes ("2", "3", "5").
func ParseDepositTerm(s string) (DepositTerm, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidTerm
	}
	t := DepositTerm(n)
	if !t.Valid() {
		return 0, ErrInvalidTerm
	}
	return t, nil
}

// TermDepositMinimum is exclusive: a term deposit must be strictly greater.
var TermDepositMinimum = decimal.NewFromInt(10000)

// Deposit is an interest-bearing sub-balance owned by one user.
type Deposit struct {
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	Amount      decimal.Decimal `json:"amount"`
	Type        DepositType     `json:"type"`
	Term        DepositTerm     `json:"term,omitempty"`
	DepositTime time.Time       `json:"deposit_time"`
}

// ElapsedSeconds returns whole seconds since the deposit was opened, never negative.
func (d *Deposit) ElapsedSeconds(now time.Time) int64 {
	s := int64(now.Sub(d.DepositTime) / time.Second)
	if s < 0 {
		return 0
	}
	return s
}

// IsMatured reports whether a term deposit has reached its term. Demand deposits
// have no maturity and always report false.
func (d *Deposit) IsMatured(now time.Time) bool {
	if d.Type != DepositTypeTerm {
		return false
	}
	return d.ElapsedSeconds(now) >= int64(d.Term)*60
}

// Withdrawable reports whether any withdrawal is currently allowed.
func (d *Deposit) Withdrawable(now time.Time) bool {
	return d.Type == DepositTypeDemand || d.IsMatured(now)
}
