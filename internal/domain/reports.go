package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary is the read-only projection of an account used for output.
type AccountSummary struct {
	Number             string          `json:"account_number"`
	Holder             string          `json:"holder_name"`
	Type               AccountType     `json:"account_type"`
	CreatedAt          time.Time       `json:"creation_date"`
	Balance            decimal.Decimal `json:"current_balance"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
}

// OperationResult records the outcome of one script operation.
type OperationResult struct {
	Line      int       `json:"line"`
	Operation Operation `json:"operation"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// RunSummary provides high-level statistics of a script run.
type RunSummary struct {
	TotalOperations  int `json:"total_operations"`
	Succeeded        int `json:"succeeded"`
	Failed           int `json:"failed"`
	LedgerSize       int `json:"ledger_size"`
	AccountsReported int `json:"accounts_reported"`
}

// RunReport is the top-level structure for the final JSON output.
type RunReport struct {
	Summary  RunSummary        `json:"summary"`
	Results  []OperationResult `json:"results"`
	Accounts []AccountSummary  `json:"accounts"`
}
