package gateway

import (
	"context"
	"errors"
	"sync"

	"mini-ledger/internal/domain"
)

// ErrEmptyTransaction is returned when appending a zero-value Transaction.
var ErrEmptyTransaction = errors.New("transaction is not initialized")

// MemoryLedger is an append-only, in-process transaction log implementing
// the LedgerRepository interface. Records are never modified or removed.
type MemoryLedger struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Append adds tx at the end of the ledger.
func (l *MemoryLedger) Append(ctx context.Context, tx domain.Transaction) error {
	if !tx.Kind().IsValid() {
		return ErrEmptyTransaction
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transactions = append(l.transactions, tx)
	return nil
}

// History returns a copy of the transactions involving account, in ledger order.
// The length is read first so concurrent appends never show up half-way.
func (l *MemoryLedger) History(ctx context.Context, account string) ([]domain.Transaction, error) {
	l.mu.RLock()
	snapshot := l.transactions[:len(l.transactions):len(l.transactions)]
	l.mu.RUnlock()

	var out []domain.Transaction
	for _, tx := range snapshot {
		if tx.Involves(account) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Len returns the number of transactions in the ledger.
func (l *MemoryLedger) Len(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions), nil
}

// All returns a copy of the whole ledger in order.
func (l *MemoryLedger) All() []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}
