package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mini-ledger/internal/domain"
	"mini-ledger/internal/log"
)

// Policy holds the limits applied to newly created accounts.
type Policy struct {
	OverdraftLimit decimal.Decimal
	InterestRate   decimal.Decimal
	MaxBalance     decimal.NullDecimal
}

// DefaultPolicy is a 50000 overdraft for Current accounts, 5% interest for
// Savings accounts and no upper limit.
func DefaultPolicy() Policy {
	return Policy{
		OverdraftLimit: decimal.NewFromInt(50000),
		InterestRate:   decimal.RequireFromString("0.05"),
	}
}

// Bank is the registry of accounts and the only writer of the ledger.
//
// mu serializes every check-then-append sequence, so a limit check and the
// append it guards are never interleaved with another mutation. Queries take
// the read lock.
type Bank struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	ledger   LedgerRepository
	policy   Policy
	logger   *slog.Logger

	now    func() time.Time
	newID  func() string
	lastTS time.Time
}

// NewBank creates a bank writing to ledger. A nil logger falls back to slog.Default.
func NewBank(ledger LedgerRepository, policy Policy, logger *slog.Logger) *Bank {
	return &Bank{
		accounts: make(map[string]domain.Account),
		ledger:   ledger,
		policy:   policy,
		logger:   log.WithComponent(logger, log.ComponentBank),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateAccount registers a new account of the given type.
func (b *Bank) CreateAccount(ctx context.Context, accountType domain.AccountType, number, holder string, opening decimal.Decimal) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[number]; ok {
		return nil, &domain.AccountError{Op: log.OpCreate, Account: number, Err: domain.ErrDuplicateAccount}
	}

	info, err := domain.NewAccount(domain.AccountParams{
		Type:           accountType,
		Number:         number,
		Holder:         holder,
		OpeningBalance: opening,
		CreatedAt:      b.now(),
		OverdraftLimit: b.policy.OverdraftLimit,
		InterestRate:   b.policy.InterestRate,
		MaxBalance:     b.policy.MaxBalance,
	})
	if err != nil {
		var accErr *domain.AccountError
		if !errors.As(err, &accErr) {
			err = &domain.AccountError{Op: log.OpCreate, Account: number, Err: err}
		}
		b.logger.WarnContext(ctx, "Account rejected",
			log.FieldOperation, log.OpCreate, log.FieldAccount, number, log.FieldError, err)
		return nil, err
	}

	b.accounts[number] = info
	b.logger.InfoContext(ctx, "Account created",
		log.FieldOperation, log.OpCreate,
		log.FieldAccount, number,
		"type", accountType,
		log.FieldBalance, opening.String())

	return &Account{bank: b, info: info}, nil
}

// GetAccount returns the view for number.
func (b *Bank) GetAccount(number string) (*Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	info, ok := b.accounts[number]
	if !ok {
		return nil, &domain.AccountError{Op: log.OpGet, Account: number, Err: domain.ErrAccountNotFound}
	}
	return &Account{bank: b, info: info}, nil
}

// Accounts returns every registered account ordered by account number.
func (b *Bank) Accounts() []*Account {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*Account, 0, len(b.accounts))
	for _, info := range b.accounts {
		out = append(out, &Account{bank: b, info: info})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}

// TransactionsOf returns the transactions involving number in chronological order.
func (b *Bank) TransactionsOf(ctx context.Context, number string) ([]domain.Transaction, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.accounts[number]; !ok {
		return nil, &domain.AccountError{Op: log.OpHistory, Account: number, Err: domain.ErrAccountNotFound}
	}
	return b.historyLocked(ctx, number)
}

// LedgerSize returns the number of committed transactions.
func (b *Bank) LedgerSize(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.Len(ctx)
}

// Transfer moves amount from one account to another as a single Transfer
// transaction. Both legs are checked against balances recomputed under the
// same lock that guards the append; on any failure the ledger is unchanged.
func (b *Bank) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) (domain.Transaction, error) {
	fail := func(account string, err error) (domain.Transaction, error) {
		err = &domain.AccountError{Op: log.OpTransfer, Account: account, Amount: amount, Err: err}
		b.logger.WarnContext(ctx, "Transfer rejected",
			log.FieldAccount, account, log.FieldTarget, to, log.FieldAmount, amount.String(), log.FieldError, err)
		return domain.Transaction{}, err
	}

	if from == to {
		return fail(from, domain.ErrSameAccountTransfer)
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return fail(from, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	src, ok := b.accounts[from]
	if !ok {
		return fail(from, domain.ErrAccountNotFound)
	}
	dst, ok := b.accounts[to]
	if !ok {
		return fail(to, domain.ErrAccountNotFound)
	}

	srcBalance, err := b.balanceLocked(ctx, src)
	if err != nil {
		return fail(from, err)
	}
	if err := src.CheckBalance(srcBalance.Sub(amount)); err != nil {
		return fail(from, err)
	}
	dstBalance, err := b.balanceLocked(ctx, dst)
	if err != nil {
		return fail(to, err)
	}
	if err := dst.CheckBalance(dstBalance.Add(amount)); err != nil {
		return fail(to, err)
	}

	tx, err := b.commitLocked(ctx, domain.TransactionParams{
		Kind:   domain.KindTransfer,
		Amount: amount,
		Source: from,
		Target: to,
		Note:   fmt.Sprintf("transfer from %s to %s", from, to),
	})
	if err != nil {
		return fail(from, err)
	}
	return tx, nil
}

// credit appends a Deposit or Interest transaction targeting info after
// checking the resulting balance.
func (b *Bank) credit(ctx context.Context, op string, info domain.Account, kind domain.TransactionKind, amount decimal.Decimal, note string) (domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return domain.Transaction{}, b.reject(ctx, op, info.Number(), amount, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := b.balanceLocked(ctx, info)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := info.CheckBalance(balance.Add(amount)); err != nil {
		return domain.Transaction{}, b.reject(ctx, op, info.Number(), amount, err)
	}

	tx, err := b.commitLocked(ctx, domain.TransactionParams{Kind: kind, Amount: amount, Target: info.Number(), Note: note})
	if err != nil {
		return domain.Transaction{}, b.reject(ctx, op, info.Number(), amount, err)
	}
	return tx, nil
}

// debit appends a Withdraw transaction against info after checking the resulting balance.
func (b *Bank) debit(ctx context.Context, info domain.Account, amount decimal.Decimal) (domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return domain.Transaction{}, b.reject(ctx, log.OpWithdraw, info.Number(), amount, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := b.balanceLocked(ctx, info)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := info.CheckBalance(balance.Sub(amount)); err != nil {
		return domain.Transaction{}, b.reject(ctx, log.OpWithdraw, info.Number(), amount, err)
	}

	tx, err := b.commitLocked(ctx, domain.TransactionParams{Kind: domain.KindWithdraw, Amount: amount, Source: info.Number(), Note: "withdraw"})
	if err != nil {
		return domain.Transaction{}, b.reject(ctx, log.OpWithdraw, info.Number(), amount, err)
	}
	return tx, nil
}

// applyInterest credits balance*rate, rounded to currency precision.
func (b *Bank) applyInterest(ctx context.Context, info domain.Account) (domain.Transaction, error) {
	if !info.AccruesInterest() {
		return domain.Transaction{}, b.reject(ctx, log.OpInterest, info.Number(), decimal.Zero, domain.ErrInterestNotSupported)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance, err := b.balanceLocked(ctx, info)
	if err != nil {
		return domain.Transaction{}, err
	}
	interest := domain.RoundCurrency(balance.Mul(info.InterestRate()))
	if err := domain.ValidateAmount(interest); err != nil {
		return domain.Transaction{}, b.reject(ctx, log.OpInterest, info.Number(), interest, err)
	}
	if err := info.CheckBalance(balance.Add(interest)); err != nil {
		return domain.Transaction{}, b.reject(ctx, log.OpInterest, info.Number(), interest, err)
	}

	note := fmt.Sprintf("interest at %s", info.InterestRate().String())
	tx, err := b.commitLocked(ctx, domain.TransactionParams{Kind: domain.KindInterest, Amount: interest, Target: info.Number(), Note: note})
	if err != nil {
		return domain.Transaction{}, b.reject(ctx, log.OpInterest, info.Number(), interest, err)
	}
	return tx, nil
}

// balance recomputes the balance of info under the read lock.
func (b *Bank) balance(ctx context.Context, info domain.Account) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balanceLocked(ctx, info)
}

func (b *Bank) history(ctx context.Context, number string) ([]domain.Transaction, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.historyLocked(ctx, number)
}

// balanceLocked folds the opening balance and the signed history of info.
// Callers must hold mu.
func (b *Bank) balanceLocked(ctx context.Context, info domain.Account) (decimal.Decimal, error) {
	txs, err := b.historyLocked(ctx, info.Number())
	if err != nil {
		return decimal.Zero, err
	}
	return Replay(info.OpeningBalance(), info.Number(), txs), nil
}

func (b *Bank) historyLocked(ctx context.Context, number string) ([]domain.Transaction, error) {
	txs, err := b.ledger.History(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger history for account %s: %w", number, err)
	}
	return txs, nil
}

// commitLocked mints the transaction and appends it. Callers must hold mu for writing.
func (b *Bank) commitLocked(ctx context.Context, p domain.TransactionParams) (domain.Transaction, error) {
	p.ID = b.newID()
	p.Timestamp = b.nextTimestampLocked()

	tx, err := domain.NewTransaction(p)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := b.ledger.Append(ctx, tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to append transaction: %w", err)
	}

	b.logger.InfoContext(ctx, "Transaction committed",
		log.FieldTxID, tx.ID(),
		log.FieldKind, tx.Kind(),
		log.FieldAccount, tx.Source(),
		log.FieldTarget, tx.Target(),
		log.FieldAmount, tx.Amount().String())
	return tx, nil
}

// nextTimestampLocked never returns a time before the previous one.
func (b *Bank) nextTimestampLocked() time.Time {
	ts := b.now()
	if !ts.After(b.lastTS) {
		ts = b.lastTS.Add(time.Nanosecond)
	}
	b.lastTS = ts
	return ts
}

func (b *Bank) reject(ctx context.Context, op, account string, amount decimal.Decimal, err error) error {
	var accErr *domain.AccountError
	if !errors.As(err, &accErr) {
		err = &domain.AccountError{Op: op, Account: account, Amount: amount, Err: err}
	}
	b.logger.WarnContext(ctx, "Operation rejected",
		log.FieldOperation, op, log.FieldAccount, account, log.FieldAmount, amount.String(), log.FieldError, err)
	return err
}

// Replay folds txs onto opening for account and rounds the result to
// currency precision.
func Replay(opening decimal.Decimal, account string, txs []domain.Transaction) decimal.Decimal {
	balance := opening
	for _, tx := range txs {
		balance = balance.Add(tx.SignedAmount(account))
	}
	return domain.RoundCurrency(balance)
}
