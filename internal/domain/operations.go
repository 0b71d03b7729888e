package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Action names a bank operation a script can request.
type Action string

const (
	ActionCreate   Action = "create"
	ActionDeposit  Action = "deposit"
	ActionWithdraw Action = "withdraw"
	ActionTransfer Action = "transfer"
	ActionInterest Action = "interest"
)

// ParseAction normalizes s into a known Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionCreate, ActionDeposit, ActionWithdraw, ActionTransfer, ActionInterest:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action '%s'", s)
	}
}

// Operation is one requested bank operation. Amount holds the opening balance
// for ActionCreate and is unused for ActionInterest.
type Operation struct {
	Line        int             `json:"-"`
	Action      Action          `json:"action"`
	Account     string          `json:"account"`
	Target      string          `json:"target,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	AccountType AccountType     `json:"account_type,omitempty"`
	Holder      string          `json:"holder,omitempty"`
}
