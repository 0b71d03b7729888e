package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType selects the limit policy of an account.
type AccountType string

const (
	AccountGeneric AccountType = "GENERIC"
	AccountSavings AccountType = "SAVINGS"
	AccountCurrent AccountType = "CURRENT"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountGeneric, AccountSavings, AccountCurrent:
		return true
	default:
		return false
	}
}

// ParseAccountType accepts "generic", "savings" and "current" in any case,
// with or without an "Account" suffix.
func ParseAccountType(s string) (AccountType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "ACCOUNT")
	name = strings.TrimSuffix(name, "_")
	t := AccountType(name)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, s)
	}
	return t, nil
}

// AccountParams holds the inputs for NewAccount.
type AccountParams struct {
	Type           AccountType
	Number         string
	Holder         string
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time

	// OverdraftLimit is how far below zero a Current account may go.
	OverdraftLimit decimal.Decimal
	// InterestRate is the flat rate applied by Savings accounts.
	InterestRate decimal.Decimal
	// MaxBalance is the upper limit; invalid means unbounded.
	MaxBalance decimal.NullDecimal
}

// Account is the immutable description of a registered account: identity,
// opening balance and limits. Its balance lives in the ledger.
type Account struct {
	number       string
	holder       string
	createdAt    time.Time
	accountType  AccountType
	opening      decimal.Decimal
	minLimit     decimal.Decimal
	maxLimit     decimal.NullDecimal
	interestRate decimal.Decimal
}

// NewAccount validates p and derives the limits for its type.
func NewAccount(p AccountParams) (Account, error) {
	if strings.TrimSpace(p.Number) == "" {
		return Account{}, ErrEmptyAccountNumber
	}
	if !p.Type.IsValid() {
		return Account{}, fmt.Errorf("%w: %q", ErrInvalidAccountType, p.Type)
	}
	if p.OverdraftLimit.IsNegative() {
		return Account{}, fmt.Errorf("%w: overdraft limit %s is negative", ErrInvalidAmount, p.OverdraftLimit)
	}

	a := Account{
		number:      p.Number,
		holder:      p.Holder,
		createdAt:   p.CreatedAt,
		accountType: p.Type,
		opening:     p.OpeningBalance,
		minLimit:    decimal.Zero,
		maxLimit:    p.MaxBalance,
	}
	switch p.Type {
	case AccountCurrent:
		a.minLimit = p.OverdraftLimit.Neg()
	case AccountSavings:
		a.interestRate = p.InterestRate
	}

	if err := ValidatePrecision(p.OpeningBalance); err != nil {
		return Account{}, &AccountError{Op: "open", Account: p.Number, Amount: p.OpeningBalance, Err: err}
	}
	if err := a.CheckBalance(p.OpeningBalance); err != nil {
		return Account{}, &AccountError{Op: "open", Account: p.Number, Amount: p.OpeningBalance, Err: err}
	}
	return a, nil
}

func (a Account) Number() string                  { return a.number }
func (a Account) Holder() string                  { return a.holder }
func (a Account) CreatedAt() time.Time            { return a.createdAt }
func (a Account) Type() AccountType               { return a.accountType }
func (a Account) OpeningBalance() decimal.Decimal { return a.opening }
func (a Account) MinLimit() decimal.Decimal       { return a.minLimit }
func (a Account) InterestRate() decimal.Decimal   { return a.interestRate }

// MaxLimit returns the upper limit and whether one is set.
func (a Account) MaxLimit() (decimal.Decimal, bool) {
	return a.maxLimit.Decimal, a.maxLimit.Valid
}

// AccruesInterest reports whether ApplyInterest is available for the account.
func (a Account) AccruesInterest() bool {
	return a.accountType == AccountSavings
}

// CheckBalance returns nil when balance lies within [min, max], otherwise the
// limit error matching the account type.
func (a Account) CheckBalance(balance decimal.Decimal) error {
	if balance.LessThan(a.minLimit) {
		return a.floorError()
	}
	if a.maxLimit.Valid && balance.GreaterThan(a.maxLimit.Decimal) {
		return ErrMaxBalanceExceeded
	}
	return nil
}

// Allows is CheckBalance as a predicate.
func (a Account) Allows(balance decimal.Decimal) bool {
	return a.CheckBalance(balance) == nil
}

func (a Account) floorError() error {
	if a.accountType == AccountCurrent {
		return ErrOverdraftExceeded
	}
	return ErrInsufficientBalance
}
