package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind defines the nature of a ledger event.
type TransactionKind string

const (
	KindDeposit  TransactionKind = "DEPOSIT"
	KindWithdraw TransactionKind = "WITHDRAW"
	KindInterest TransactionKind = "INTEREST"
	KindTransfer TransactionKind = "TRANSFER"
)

// IsValid reports whether k is one of the known kinds.
func (k TransactionKind) IsValid() bool {
	switch k {
	case KindDeposit, KindWithdraw, KindInterest, KindTransfer:
		return true
	default:
		return false
	}
}

// Transaction is an immutable ledger record. A Transaction obtained from
// NewTransaction is always well-formed for its kind; the zero value is not a
// valid record and is never appended to a ledger.
type Transaction struct {
	id        string
	kind      TransactionKind
	amount    decimal.Decimal
	source    string
	target    string
	note      string
	timestamp time.Time
}

// TransactionParams holds the inputs for NewTransaction. An empty Source or
// Target means the role is absent.
type TransactionParams struct {
	ID        string
	Kind      TransactionKind
	Amount    decimal.Decimal
	Source    string
	Target    string
	Note      string
	Timestamp time.Time
}

// NewTransaction validates p and returns the record.
//
// Deposit and Interest credit a target and have no source, Withdraw debits a
// source and has no target, and Transfer needs two distinct accounts.
func NewTransaction(p TransactionParams) (Transaction, error) {
	if err := ValidateAmount(p.Amount); err != nil {
		return Transaction{}, err
	}

	hasSource, hasTarget := p.Source != "", p.Target != ""
	switch p.Kind {
	case KindDeposit, KindInterest:
		if hasSource || !hasTarget {
			return Transaction{}, fmt.Errorf("%w: %s requires a target and no source", ErrInvalidTransactionShape, p.Kind)
		}
	case KindWithdraw:
		if !hasSource || hasTarget {
			return Transaction{}, fmt.Errorf("%w: %s requires a source and no target", ErrInvalidTransactionShape, p.Kind)
		}
	case KindTransfer:
		if !hasSource || !hasTarget {
			return Transaction{}, fmt.Errorf("%w: %s requires both source and target", ErrInvalidTransactionShape, p.Kind)
		}
		if p.Source == p.Target {
			return Transaction{}, ErrSameAccountTransfer
		}
	default:
		return Transaction{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTransactionShape, p.Kind)
	}

	return Transaction{
		id:        p.ID,
		kind:      p.Kind,
		amount:    p.Amount,
		source:    p.Source,
		target:    p.Target,
		note:      p.Note,
		timestamp: p.Timestamp,
	}, nil
}

func (t Transaction) ID() string              { return t.id }
func (t Transaction) Kind() TransactionKind   { return t.kind }
func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) Source() string          { return t.source }
func (t Transaction) Target() string          { return t.target }
func (t Transaction) Note() string            { return t.note }
func (t Transaction) Timestamp() time.Time    { return t.timestamp }

// Involves reports whether the account takes part in the transaction on either side.
func (t Transaction) Involves(account string) bool {
	return account != "" && (t.source == account || t.target == account)
}

// SignedAmount is the contribution of t to the balance of account: positive
// when the account is credited, negative when debited, zero when unrelated.
func (t Transaction) SignedAmount(account string) decimal.Decimal {
	switch {
	case t.target == account && account != "":
		return t.amount
	case t.source == account && account != "":
		return t.amount.Neg()
	default:
		return decimal.Zero
	}
}

// String renders "timestamp KIND amount [source -> target]".
func (t Transaction) String() string {
	var b strings.Builder
	b.WriteString(t.timestamp.Format(time.RFC3339))
	b.WriteByte(' ')
	b.WriteString(string(t.kind))
	b.WriteByte(' ')
	b.WriteString(t.amount.StringFixed(CurrencyPlaces))
	if t.source != "" || t.target != "" {
		fmt.Fprintf(&b, " [%s -> %s]", orDash(t.source), orDash(t.target))
	}
	return b.String()
}

type transactionJSON struct {
	ID        string          `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source_account,omitempty"`
	Target    string          `json:"target_account,omitempty"`
	Note      string          `json:"note,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// MarshalJSON renders the read-only fields.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:        t.id,
		Kind:      t.kind,
		Amount:    t.amount,
		Source:    t.source,
		Target:    t.target,
		Note:      t.note,
		Timestamp: t.timestamp,
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
