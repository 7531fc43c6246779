package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType is the direction of a ledger movement.
type MovementType string

const (
	TypeIncome   MovementType = "income"
	TypeExpense  MovementType = "expense"
	TypeTransfer MovementType = "transfer"
)

// Movement is a single dated financial event: income, expense, or a transfer
// between two accounts. Amount is always stored positive; the sign of its
// effect on an account is derived from the type and, for transfers, from the
// direction. Exactly one of AccountID or the AccountFromID/AccountToID pair
// is populated, matching the type.
type Movement struct {
	ID            string
	OwnerID       string
	Date          time.Time
	Type          MovementType
	Amount        decimal.Decimal
	AccountID     string
	AccountFromID string
	AccountToID   string
	CategoryID    string
	FixedVar      *FixedFlag
	Note          string
	CreatedAt     time.Time
}

// MovementWithNames is a Movement joined with the display names of the
// accounts and category it references. Queries that feed export or display
// return this fixed shape instead of loosely typed joined rows.
type MovementWithNames struct {
	Movement
	AccountName     string
	AccountFromName string
	AccountToName   string
	CategoryName    string
}

// Validate checks the structural invariants of a movement before it is
// written. The store rejects anything that fails here.
func (m Movement) Validate() error {
	if !m.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", m.Amount)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	switch m.Type {
	case TypeIncome, TypeExpense:
		if m.AccountID == "" {
			return fmt.Errorf("%s movement requires an account", m.Type)
		}
		if m.AccountFromID != "" || m.AccountToID != "" {
			return fmt.Errorf("%s movement must not carry transfer accounts", m.Type)
		}
	case TypeTransfer:
		if m.AccountFromID == "" || m.AccountToID == "" {
			return fmt.Errorf("transfer requires both source and destination accounts")
		}
		if m.AccountFromID == m.AccountToID {
			return fmt.Errorf("transfer source and destination must differ")
		}
		if m.CategoryID != "" {
			return fmt.Errorf("transfer must not carry a category")
		}
	default:
		return fmt.Errorf("unknown movement type: %q", m.Type)
	}
	return nil
}

// SignedImpact returns the contribution of this movement to the balance of
// accountID: positive for incoming money, negative for outgoing, zero when
// the movement does not touch the account.
func (m Movement) SignedImpact(accountID string) decimal.Decimal {
	switch m.Type {
	case TypeIncome:
		if m.AccountID == accountID {
			return m.Amount
		}
	case TypeExpense:
		if m.AccountID == accountID {
			return m.Amount.Neg()
		}
	case TypeTransfer:
		if m.AccountToID == accountID {
			return m.Amount
		}
		if m.AccountFromID == accountID {
			return m.Amount.Neg()
		}
	}
	return decimal.Zero
}

// IsTransfer reports whether the movement moves money between two accounts.
func (m Movement) IsTransfer() bool {
	return m.Type == TypeTransfer
}
