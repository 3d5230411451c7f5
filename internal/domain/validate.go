package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for amounts (smallest unit 0.01).
const MoneyScale = 2

// ParseAmount parses a decimal money amount. Sign is not checked here.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrMalformedRequest
	}
	return d, nil
}

// ValidateAmount returns ErrInvalidAmount unless amount > 0 and has no
// precision finer than one cent.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(MoneyScale)) {
		return ErrInvalidAmount
	}
	return nil
}

// ValidUsername rejects empty names and names containing characters that would
// collide with the key scheme's ':' separator.
func ValidUsername(username string) bool {
	return username != "" && !strings.ContainsAny(username, ": \t\r\n")
}
