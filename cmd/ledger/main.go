package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"mini-ledger/internal/config"
	"mini-ledger/internal/domain"
	"mini-ledger/internal/gateway"
	"mini-ledger/internal/log"
	"mini-ledger/internal/usecase"
)

func main() {
	// Define command-line flags
	scriptFile := flag.String("script", "", "Path to an operations CSV file (default: built-in sample scenario)")
	envFile := flag.String("env", "", "Path to a .env file (default: ./.env if present)")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	if err := config.LoadEnvFile(envFiles...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	cfg.LogStartup(logger)
	appLog := log.WithComponent(logger, log.ComponentApp)

	policy, err := cfg.Policy()
	if err != nil {
		appLog.Error("Invalid account policy", log.FieldError, err)
		os.Exit(1)
	}

	// --- Dependency Injection (Wiring the application) ---
	ledger := gateway.NewMemoryLedger()
	bank := usecase.NewBank(ledger, policy, logger)
	scriptUseCase := usecase.NewScriptUseCase(gateway.NewCSVScriptRepository(), bank, logger)

	// --- Execute the Usecase ---
	ctx := context.Background()
	var report *domain.RunReport
	if *scriptFile != "" {
		appLog.Info("Running script", log.FieldOperation, log.OpRun, log.FieldPath, *scriptFile)
		report, err = scriptUseCase.Run(ctx, *scriptFile)
	} else {
		appLog.Info("Running sample scenario", log.FieldOperation, log.OpRun)
		report, err = scriptUseCase.Execute(ctx, sampleScenario())
	}
	if err != nil {
		appLog.Error("Run failed", log.FieldError, err)
		os.Exit(1)
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		appLog.Error("Failed to generate JSON report", log.FieldError, err)
		os.Exit(1)
	}

	fmt.Println(string(output))
	if report.Summary.Failed > 0 {
		os.Exit(2)
	}
}

// sampleScenario mirrors the classic demo: two savings accounts, one current
// account, a few deposits and withdrawals and a transfer out of the overdraft.
func sampleScenario() []domain.Operation {
	amt := decimal.NewFromInt
	return []domain.Operation{
		{Action: domain.ActionCreate, AccountType: domain.AccountSavings, Account: "1234", Holder: "david laid", Amount: amt(500)},
		{Action: domain.ActionCreate, AccountType: domain.AccountSavings, Account: "2345", Holder: "john mehra", Amount: amt(2000)},
		{Action: domain.ActionCreate, AccountType: domain.AccountCurrent, Account: "5647", Holder: "sara ali", Amount: amt(2000)},
		{Action: domain.ActionDeposit, Account: "1234", Amount: amt(2000)},
		{Action: domain.ActionDeposit, Account: "2345", Amount: amt(5000)},
		{Action: domain.ActionDeposit, Account: "1234", Amount: amt(2000)},
		{Action: domain.ActionWithdraw, Account: "2345", Amount: amt(2000)},
		{Action: domain.ActionWithdraw, Account: "1234", Amount: amt(3000)},
		{Action: domain.ActionDeposit, Account: "5647", Amount: amt(2000)},
		{Action: domain.ActionTransfer, Account: "5647", Target: "1234", Amount: amt(19000)},
		{Action: domain.ActionInterest, Account: "2345"},
	}
}
