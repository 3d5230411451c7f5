package facade

import (
	"context"
	"errors"

	"banking-service/internal/domain"
)

// Code is the transport-neutral outcome class of an operation.
type Code int

const (
	CodeOK Code = iota
	CodeMalformed
	CodeNotFound
	CodeAlreadyExists
	CodeRejected
	CodeUnauthenticated
	CodeConflict
	CodeUnavailable
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "success"
	case CodeMalformed:
		return "malformed"
	case CodeNotFound:
		return "not_found"
	case CodeAlreadyExists:
		return "already_exists"
	case CodeRejected:
		return "rejected"
	case CodeUnauthenticated:
		return "unauthenticated"
	case CodeConflict:
		return "conflict"
	case CodeUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// classify maps an error to its outcome class and a stable machine-readable key.
// More specific sentinels are checked before the ones they wrap.
func classify(err error) (Code, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAccountType):
		return CodeMalformed, "INVALID_ACCOUNT_TYPE"
	case errors.Is(err, domain.ErrInvalidUsername):
		return CodeMalformed, "INVALID_USERNAME"
	case errors.Is(err, domain.ErrMalformedRequest):
		return CodeMalformed, "MALFORMED_REQUEST"
	case errors.Is(err, domain.ErrInvalidDepositType):
		return CodeMalformed, "INVALID_DEPOSIT_TYPE"
	case errors.Is(err, domain.ErrInvalidTerm):
		return CodeMalformed, "INVALID_TERM"
	case errors.Is(err, domain.ErrAlreadyExists):
		return CodeAlreadyExists, "ALREADY_EXISTS"
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrBelowMinimum):
		return CodeRejected, "BELOW_MINIMUM"
	case errors.Is(err, domain.ErrInvalidAmount):
		return CodeRejected, "INVALID_AMOUNT"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return CodeRejected, "INSUFFICIENT_FUNDS"
	case errors.Is(err, domain.ErrNotMatured):
		return CodeRejected, "NOT_MATURED"
	case errors.Is(err, domain.ErrSameAccount):
		return CodeRejected, "SAME_ACCOUNT"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return CodeUnauthenticated, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrSessionExpired):
		return CodeUnauthenticated, "SESSION_EXPIRED"
	case errors.Is(err, domain.ErrConflict):
		return CodeConflict, "CONFLICT"
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return CodeUnavailable, "STORE_UNAVAILABLE"
	default:
		return CodeInternal, "INTERNAL"
	}
}

// publicMessage hides infrastructure detail from callers.
func publicMessage(code Code, err error) string {
	switch code {
	case CodeUnavailable:
		return "service temporarily unavailable"
	case CodeConflict:
		return "too many concurrent updates, please retry"
	case CodeInternal:
		return "internal error"
	default:
		return err.Error()
	}
}
