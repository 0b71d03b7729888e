package gateway

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"mini-ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTransaction(t testing.TB, p domain.TransactionParams) domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(p)
	if err != nil {
		t.Fatalf("NewTransaction(%+v): %v", p, err)
	}
	return tx
}

func TestMemoryLedger_AppendAndHistory(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	ten := decimal.NewFromInt(10)

	txs := []domain.Transaction{
		mustTransaction(t, domain.TransactionParams{ID: "1", Kind: domain.KindDeposit, Amount: ten, Target: "A"}),
		mustTransaction(t, domain.TransactionParams{ID: "2", Kind: domain.KindDeposit, Amount: ten, Target: "B"}),
		mustTransaction(t, domain.TransactionParams{ID: "3", Kind: domain.KindTransfer, Amount: ten, Source: "A", Target: "B"}),
		mustTransaction(t, domain.TransactionParams{ID: "4", Kind: domain.KindWithdraw, Amount: ten, Source: "B"}),
	}
	for _, tx := range txs {
		require.NoError(t, ledger.Append(ctx, tx))
	}

	n, err := ledger.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	historyIDs := func(account string) []string {
		h, err := ledger.History(ctx, account)
		require.NoError(t, err)
		ids := make([]string, len(h))
		for i, tx := range h {
			ids[i] = tx.ID()
		}
		return ids
	}
	assert.Equal(t, []string{"1", "3"}, historyIDs("A"))
	assert.Equal(t, []string{"2", "3", "4"}, historyIDs("B"))
	assert.Empty(t, historyIDs("C"))
	assert.Len(t, ledger.All(), 4)
}

func TestMemoryLedger_RejectsZeroTransaction(t *testing.T) {
	ledger := NewMemoryLedger()
	assert.ErrorIs(t, ledger.Append(context.Background(), domain.Transaction{}), ErrEmptyTransaction)
	assert.Empty(t, ledger.All())
}

func TestMemoryLedger_HistoryIsACopy(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	one := decimal.NewFromInt(1)
	require.NoError(t, ledger.Append(ctx, mustTransaction(t, domain.TransactionParams{ID: "1", Kind: domain.KindDeposit, Amount: one, Target: "A"})))

	h, err := ledger.History(ctx, "A")
	require.NoError(t, err)
	h[0] = mustTransaction(t, domain.TransactionParams{ID: "x", Kind: domain.KindDeposit, Amount: one, Target: "A"})

	again, err := ledger.History(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "1", again[0].ID())
}

func TestMemoryLedger_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	const workers = 50

	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		tx := mustTransaction(t, domain.TransactionParams{ID: fmt.Sprint(i), Kind: domain.KindDeposit, Amount: decimal.NewFromInt(1), Target: "A"})
		go func() {
			defer wg.Done()
			if err := ledger.Append(ctx, tx); err != nil {
				t.Errorf("append: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := ledger.History(ctx, "A"); err != nil {
				t.Errorf("history: %v", err)
			}
		}()
	}
	wg.Wait()

	h, err := ledger.History(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, h, workers)
}

func BenchmarkMemoryLedger_History(b *testing.B) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	one := decimal.NewFromInt(1)
	for i := 0; i < 10000; i++ {
		target := "A"
		if i%2 == 0 {
			target = "B"
		}
		_ = ledger.Append(ctx, mustTransaction(b, domain.TransactionParams{Kind: domain.KindDeposit, Amount: one, Target: target}))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ledger.History(ctx, "A"); err != nil {
			b.Fatal(err)
		}
	}
}
