package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidTransactionShape = errors.New("invalid transaction shape")
	ErrAccountNotFound         = errors.New("account not found")
	ErrDuplicateAccount        = errors.New("account already exists")
	ErrSameAccountTransfer     = errors.New("cannot transfer to the same account")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrInterestNotSupported    = errors.New("interest is only applied to savings accounts")
	ErrEmptyAccountNumber      = errors.New("account number is required")

	// ErrLimitExceeded is the parent of every account limit violation.
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrInsufficientBalance is returned for Generic and Savings accounts.
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", ErrLimitExceeded)
	// ErrOverdraftExceeded is returned for Current accounts.
	ErrOverdraftExceeded = fmt.Errorf("%w: overdraft limit exceeded", ErrLimitExceeded)
	// ErrMaxBalanceExceeded is returned when a credit would pass the upper limit.
	ErrMaxBalanceExceeded = fmt.Errorf("%w: maximum balance exceeded", ErrLimitExceeded)
)

// AccountError attaches the operation, account number and attempted amount
// to a domain error.
type AccountError struct {
	Op      string
	Account string
	Amount  decimal.Decimal
	Err     error
}

func (e *AccountError) Error() string {
	if e.Amount.IsZero() {
		return fmt.Sprintf("%s account %s: %v", e.Op, e.Account, e.Err)
	}
	return fmt.Sprintf("%s %s on account %s: %v", e.Op, e.Amount.String(), e.Account, e.Err)
}

func (e *AccountError) Unwrap() error { return e.Err }
