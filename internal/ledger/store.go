// Package ledger defines the contract with the persistent store that holds
// accounts, categories, movements, snapshots, day notes, and recurring
// templates. The balance, aggregation, net-worth, and CSV subsystems consume
// these interfaces; internal/storage provides the implementations.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/models"
)

// MovementFilter narrows a movement listing. Zero values mean "no filter".
// AccountID matches any of the three account roles a movement can carry.
type MovementFilter struct {
	StartDate        *time.Time
	EndDate          *time.Time
	Type             *models.MovementType
	AccountID        string
	CategoryID       string
	FixedVar         *models.FixedFlag
	ExcludeTransfers bool
}

// SnapshotFilter narrows a snapshot listing.
type SnapshotFilter struct {
	AccountID string
	StartDate *time.Time
	EndDate   *time.Time
}

// NewMovement carries the fields of a movement to be created. OwnerID is
// resolved once at the request boundary and threaded through explicitly.
type NewMovement struct {
	OwnerID       string
	Date          time.Time
	Type          models.MovementType
	Amount        decimal.Decimal
	AccountID     string
	AccountFromID string
	AccountToID   string
	CategoryID    string
	FixedVar      *models.FixedFlag
	Note          string
}

// NewAccount carries the fields of an account to be created.
type NewAccount struct {
	OwnerID        string
	Name           string
	Type           models.AccountType
	OpeningBalance decimal.Decimal
}

// NewCategory carries the fields of a category to be created.
type NewCategory struct {
	OwnerID string
	Name    string
	Kind    models.CategoryKind
	IsFixed bool
}

// NewSnapshot carries the fields of a snapshot to be created.
type NewSnapshot struct {
	OwnerID   string
	AccountID string
	Date      time.Time
	Balance   decimal.Decimal
}

// NewTemplate carries the fields of a recurring template to be created.
type NewTemplate struct {
	OwnerID    string
	Name       string
	Type       models.MovementType
	Amount     decimal.Decimal
	DayOfMonth int
	AccountID  string
	CategoryID string
	FixedVar   *models.FixedFlag
	Note       string
}

// MovementStore is the movement slice of the ledger.
type MovementStore interface {
	// ListMovements returns movements matching the filter, most recent date
	// first, with account and category names resolved.
	ListMovements(ctx context.Context, filter MovementFilter) ([]models.MovementWithNames, error)

	// MovementsOn returns all movements dated exactly on the given day.
	MovementsOn(ctx context.Context, date time.Time) ([]models.MovementWithNames, error)

	// CreateMovement validates and stores a new movement. Structural or
	// referential problems surface as *finerrors.ValidationError.
	CreateMovement(ctx context.Context, m NewMovement) (models.Movement, error)

	// UpdateMovement replaces the mutable fields of an existing movement.
	UpdateMovement(ctx context.Context, id string, m NewMovement) (models.Movement, error)

	DeleteMovement(ctx context.Context, id string) error
}

// AccountStore is the account slice of the ledger.
type AccountStore interface {
	// ListAccounts returns accounts sorted by name. Inactive accounts are
	// omitted unless includeInactive is set.
	ListAccounts(ctx context.Context, includeInactive bool) ([]models.Account, error)
	GetAccount(ctx context.Context, id string) (models.Account, error)
	CreateAccount(ctx context.Context, a NewAccount) (models.Account, error)
	UpdateAccount(ctx context.Context, a models.Account) (models.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// CategoryStore is the category slice of the ledger.
type CategoryStore interface {
	// ListCategories returns active categories sorted by name, optionally
	// restricted to one kind.
	ListCategories(ctx context.Context, kind *models.CategoryKind) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	CreateCategory(ctx context.Context, c NewCategory) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// SnapshotStore is the snapshot slice of the ledger.
type SnapshotStore interface {
	// ListSnapshots returns snapshots matching the filter in ascending date
	// order.
	ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]models.Snapshot, error)

	// CreateSnapshot stores a new snapshot. It fails with
	// *finerrors.NotFoundError when the account does not exist and with
	// *finerrors.ConflictError when a snapshot already exists for the same
	// account and date.
	CreateSnapshot(ctx context.Context, s NewSnapshot) (models.Snapshot, error)

	// UpdateSnapshotBalance mutates only the balance of an existing snapshot.
	UpdateSnapshotBalance(ctx context.Context, id string, balance decimal.Decimal) (models.Snapshot, error)

	DeleteSnapshot(ctx context.Context, id string) error
}

// DayNoteStore is the diary slice of the ledger.
type DayNoteStore interface {
	// GetDayNote returns the note for a date, or nil when none exists.
	GetDayNote(ctx context.Context, date time.Time) (*models.DayNote, error)

	ListDayNotes(ctx context.Context, start, end time.Time) ([]models.DayNote, error)

	// UpsertDayNote creates or replaces the note for a date. An empty or
	// whitespace-only note deletes the row instead; no empty-string rows are
	// ever persisted. Returns nil when the note was deleted.
	UpsertDayNote(ctx context.Context, ownerID string, date time.Time, note string) (*models.DayNote, error)
}

// TemplateStore is the recurring-template slice of the ledger.
type TemplateStore interface {
	ListTemplates(ctx context.Context, onlyActive bool) ([]models.RecurringTemplate, error)
	CreateTemplate(ctx context.Context, t NewTemplate) (models.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, t models.RecurringTemplate) (models.RecurringTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
}

// Store is the full ledger contract.
type Store interface {
	MovementStore
	AccountStore
	CategoryStore
	SnapshotStore
	DayNoteStore
	TemplateStore

	Close() error
}
