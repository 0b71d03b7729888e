package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"mini-ledger/internal/domain"
	"mini-ledger/internal/log"
)

// DefaultRecentTransactions is how many transactions each account summary lists.
const DefaultRecentTransactions = 5

// ScriptUseCase runs a batch of operations against a bank.
type ScriptUseCase struct {
	repo   ScriptRepository
	bank   *Bank
	recent int
	logger *slog.Logger
}

// NewScriptUseCase creates a new instance of the usecase.
func NewScriptUseCase(repo ScriptRepository, bank *Bank, logger *slog.Logger) *ScriptUseCase {
	return &ScriptUseCase{
		repo:   repo,
		bank:   bank,
		recent: DefaultRecentTransactions,
		logger: log.WithComponent(logger, log.ComponentScript),
	}
}

// Run loads the script at path and executes it.
func (uc *ScriptUseCase) Run(ctx context.Context, path string) (*domain.RunReport, error) {
	ops, err := uc.repo.GetOperations(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not get operations: %w", err)
	}
	return uc.Execute(ctx, ops)
}

// Execute performs every operation in order. A failing operation is recorded
// in the report with its error and does not stop the run.
func (uc *ScriptUseCase) Execute(ctx context.Context, ops []domain.Operation) (*domain.RunReport, error) {
	report := domain.RunReport{
		Results:  make([]domain.OperationResult, 0, len(ops)),
		Accounts: make([]domain.AccountSummary, 0),
	}

	for i, op := range ops {
		line := op.Line
		if line == 0 {
			line = i + 1
		}
		result := domain.OperationResult{Line: line, Operation: op, Success: true}
		if err := uc.apply(ctx, op); err != nil {
			result.Success = false
			result.Error = err.Error()
			report.Summary.Failed++
			uc.logger.WarnContext(ctx, "Operation failed",
				log.FieldLine, line, log.FieldOperation, op.Action, log.FieldError, err)
		} else {
			report.Summary.Succeeded++
		}
		report.Results = append(report.Results, result)
	}
	report.Summary.TotalOperations = len(ops)

	for _, acct := range uc.bank.Accounts() {
		summary, err := acct.Summary(ctx, uc.recent)
		if err != nil {
			return nil, fmt.Errorf("could not summarize account %s: %w", acct.Number(), err)
		}
		report.Accounts = append(report.Accounts, summary)
	}
	report.Summary.AccountsReported = len(report.Accounts)

	size, err := uc.bank.LedgerSize(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger size: %w", err)
	}
	report.Summary.LedgerSize = size

	return &report, nil
}

func (uc *ScriptUseCase) apply(ctx context.Context, op domain.Operation) error {
	switch op.Action {
	case domain.ActionCreate:
		_, err := uc.bank.CreateAccount(ctx, op.AccountType, op.Account, op.Holder, op.Amount)
		return err
	case domain.ActionTransfer:
		_, err := uc.bank.Transfer(ctx, op.Account, op.Target, op.Amount)
		return err
	}

	acct, err := uc.bank.GetAccount(op.Account)
	if err != nil {
		return err
	}
	switch op.Action {
	case domain.ActionDeposit:
		_, err = acct.Deposit(ctx, op.Amount)
	case domain.ActionWithdraw:
		_, err = acct.Withdraw(ctx, op.Amount)
	case domain.ActionInterest:
		_, err = acct.ApplyInterest(ctx)
	default:
		err = fmt.Errorf("unsupported action '%s'", op.Action)
	}
	return err
}
