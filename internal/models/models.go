// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType enumerates the supported kinds of accounts.
type AccountType string

const (
	AccountBank        AccountType = "bank"
	AccountCash        AccountType = "cash"
	AccountBroker      AccountType = "broker"
	AccountRoboAdvisor AccountType = "roboadvisor"
	AccountEWallet     AccountType = "ewallet"
	AccountCreditCard  AccountType = "credit_card"
)

// ValidAccountType reports whether t is one of the supported account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountBank, AccountCash, AccountBroker, AccountRoboAdvisor, AccountEWallet, AccountCreditCard:
		return true
	}
	return false
}

// CategoryKind constrains which movement types may reference a category.
type CategoryKind string

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

// FixedFlag is the budgeting tag distinguishing recurring fixed costs from
// discretionary variable ones. It is nullable on movements; use a pointer.
type FixedFlag string

const (
	FlagFixed    FixedFlag = "fixed"
	FlagVariable FixedFlag = "variable"
)

// FlagPtr returns a pointer to f, for filling optional fields.
func FlagPtr(f FixedFlag) *FixedFlag {
	return &f
}

// Account is a money container with an immutable opening balance baseline.
// Deactivating an account hides it from pickers but keeps its history.
type Account struct {
	ID             string
	OwnerID        string
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
}

// Category tags income or expense movements. Kind must match the movement
// type that references it.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Kind      CategoryKind
	IsFixed   bool
	IsActive  bool
	CreatedAt time.Time
}

// Snapshot is a manually recorded actual balance for one account on one
// date, used to reconcile against computed balances. At most one snapshot
// exists per (account, date) pair.
type Snapshot struct {
	ID        string
	OwnerID   string
	AccountID string
	Date      time.Time
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// DayNote is a free-text diary entry attached to a calendar day. At most one
// note exists per date; empty notes are never persisted.
type DayNote struct {
	ID        string
	OwnerID   string
	Date      time.Time
	Note      string
	CreatedAt time.Time
}

// RecurringTemplate describes a movement that repeats monthly on a fixed day.
// DayOfMonth is clamped to the length of the month when applied.
type RecurringTemplate struct {
	ID         string
	OwnerID    string
	Name       string
	Type       MovementType
	Amount     decimal.Decimal
	DayOfMonth int
	AccountID  string
	CategoryID string
	FixedVar   *FixedFlag
	Note       string
	Active     bool
	CreatedAt  time.Time
}
