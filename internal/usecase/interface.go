package usecase

import (
	"context"
	"mini-ledger/internal/domain"
)

// LedgerRepository is the append-only store of every transaction.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type LedgerRepository interface {
	// Append adds tx at the end of the ledger.
	Append(ctx context.Context, tx domain.Transaction) error
	// History returns the transactions involving account in ledger order.
	History(ctx context.Context, account string) ([]domain.Transaction, error)
	// Len returns the number of transactions in the ledger.
	Len(ctx context.Context) (int, error)
}

// ScriptRepository loads a batch of operations to run against the bank.
type ScriptRepository interface {
	GetOperations(ctx context.Context, path string) ([]domain.Operation, error)
}
