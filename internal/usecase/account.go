package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"mini-ledger/internal/domain"
	"mini-ledger/internal/log"
)

// Account is a view over the bank's ledger for one registered account.
// It holds no balance of its own; every query replays the ledger.
type Account struct {
	bank *Bank
	info domain.Account
}

func (a *Account) Number() string            { return a.info.Number() }
func (a *Account) Holder() string            { return a.info.Holder() }
func (a *Account) Type() domain.AccountType  { return a.info.Type() }
func (a *Account) CreatedAt() time.Time      { return a.info.CreatedAt() }
func (a *Account) MinLimit() decimal.Decimal { return a.info.MinLimit() }

// CurrentBalance is the opening balance plus the signed sum of the account's
// transactions, rounded to two places.
func (a *Account) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	return a.bank.balance(ctx, a.info)
}

// CanDeposit reports whether depositing amount keeps the balance within limits.
// It only fails for an invalid amount or a ledger read error.
func (a *Account) CanDeposit(ctx context.Context, amount decimal.Decimal) (bool, error) {
	return a.can(ctx, log.OpDeposit, amount, decimal.Decimal.Add)
}

// CanWithdraw reports whether withdrawing amount keeps the balance within limits.
func (a *Account) CanWithdraw(ctx context.Context, amount decimal.Decimal) (bool, error) {
	return a.can(ctx, log.OpWithdraw, amount, decimal.Decimal.Sub)
}

func (a *Account) can(ctx context.Context, op string, amount decimal.Decimal, apply func(decimal.Decimal, decimal.Decimal) decimal.Decimal) (bool, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return false, &domain.AccountError{Op: op, Account: a.Number(), Amount: amount, Err: err}
	}
	balance, err := a.CurrentBalance(ctx)
	if err != nil {
		return false, err
	}
	return a.info.Allows(apply(balance, amount)), nil
}

// Deposit records a Deposit transaction crediting the account.
func (a *Account) Deposit(ctx context.Context, amount decimal.Decimal) (domain.Transaction, error) {
	return a.bank.credit(ctx, log.OpDeposit, a.info, domain.KindDeposit, amount, "deposit")
}

// Withdraw records a Withdraw transaction debiting the account. The error
// wraps domain.ErrOverdraftExceeded for Current accounts and
// domain.ErrInsufficientBalance otherwise.
func (a *Account) Withdraw(ctx context.Context, amount decimal.Decimal) (domain.Transaction, error) {
	return a.bank.debit(ctx, a.info, amount)
}

// ApplyInterest credits the current balance times the interest rate.
// Only Savings accounts accrue interest.
func (a *Account) ApplyInterest(ctx context.Context) (domain.Transaction, error) {
	return a.bank.applyInterest(ctx, a.info)
}

// Transactions returns the account's history in chronological order.
func (a *Account) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return a.bank.history(ctx, a.Number())
}

// LastNTransactions returns up to n transactions, most recent first.
func (a *Account) LastNTransactions(ctx context.Context, n int) ([]domain.Transaction, error) {
	txs, err := a.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	return lastN(txs, n), nil
}

// Summary returns the read-only projection consumed by printers, with the
// k most recent transactions.
func (a *Account) Summary(ctx context.Context, k int) (domain.AccountSummary, error) {
	a.bank.mu.RLock()
	defer a.bank.mu.RUnlock()

	txs, err := a.bank.historyLocked(ctx, a.Number())
	if err != nil {
		return domain.AccountSummary{}, err
	}
	return domain.AccountSummary{
		Number:             a.Number(),
		Holder:             a.Holder(),
		Type:               a.Type(),
		CreatedAt:          a.CreatedAt(),
		Balance:            Replay(a.info.OpeningBalance(), a.Number(), txs),
		RecentTransactions: lastN(txs, k),
	}, nil
}

func lastN(txs []domain.Transaction, n int) []domain.Transaction {
	if n <= 0 {
		return []domain.Transaction{}
	}
	if n > len(txs) {
		n = len(txs)
	}
	out := make([]domain.Transaction, 0, n)
	for i := len(txs) - 1; i >= len(txs)-n; i-- {
		out = append(out, txs[i])
	}
	return out
}
