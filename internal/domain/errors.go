package domain

import (
	"errors"
	"fmt"
)

// Generic
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMalformedRequest = errors.New("malformed request")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("concurrent update conflict")
)

// Accounts
var (
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrUserAlreadyExists  = fmt.Errorf("username %w", ErrAlreadyExists)
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAccountType = fmt.Errorf("invalid account type: %w", ErrMalformedRequest)
	ErrInvalidUsername    = fmt.Errorf("invalid username: %w", ErrMalformedRequest)
	ErrSameAccount        = errors.New("cannot transfer to the same account")
)

// Deposits
var (
	ErrDepositNotFound    = fmt.Errorf("deposit %w", ErrNotFound)
	ErrNotMatured         = errors.New("time deposit has not matured")
	ErrInvalidDepositType = errors.New("invalid deposit type")
	ErrInvalidTerm        = errors.New("invalid deposit term")
	ErrBelowMinimum       = fmt.Errorf("time deposit must exceed %s: %w", TermDepositMinimum.String(), ErrInvalidAmount)
)

// Sessions
var (
	ErrSessionNotFound = fmt.Errorf("session %w", ErrNotFound)
	ErrSessionExpired  = errors.New("session expired")
)

// StoreError wraps a persistence failure so callers can test it with errors.Is(err, ErrStoreUnavailable).
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
