package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/models"
)

const testOwner = "owner-1"

func seeded(t *testing.T) (*Store, models.Account, models.Category) {
	t.Helper()
	ctx := context.Background()
	store := NewStore(testOwner)

	account, err := store.CreateAccount(ctx, ledger.NewAccount{
		OwnerID: testOwner, Name: "Banco", Type: models.AccountBank,
	})
	require.NoError(t, err)

	category, err := store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Comida", Kind: models.KindExpense,
	})
	require.NoError(t, err)

	return store, account, category
}

func TestListAccountsFiltersInactive(t *testing.T) {
	ctx := context.Background()
	store, account, _ := seeded(t)

	account.IsActive = false
	_, err := store.UpdateAccount(ctx, account)
	require.NoError(t, err)

	active, err := store.ListAccounts(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := store.ListAccounts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListCategoriesByKind(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seeded(t)

	_, err := store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Nómina", Kind: models.KindIncome,
	})
	require.NoError(t, err)

	income := models.KindIncome
	categories, err := store.ListCategories(ctx, &income)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Nómina", categories[0].Name)

	all, err := store.ListCategories(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateMovementRejectsKindMismatch(t *testing.T) {
	ctx := context.Background()
	store, account, category := seeded(t)

	// Comida is an expense category; an income movement must not use it.
	_, err := store.CreateMovement(ctx, ledger.NewMovement{
		OwnerID: testOwner, Date: dateutils.Date(2024, time.January, 1),
		Type: models.TypeIncome, Amount: decimal.NewFromInt(100),
		AccountID: account.ID, CategoryID: category.ID,
	})
	require.Error(t, err)

	var vErr *finerrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCreateMovementRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	store, account, category := seeded(t)

	_, err := store.CreateMovement(ctx, ledger.NewMovement{
		OwnerID: testOwner, Date: dateutils.Date(2024, time.January, 1),
		Type: models.TypeExpense, Amount: decimal.NewFromInt(10),
		AccountID: "missing", CategoryID: category.ID,
	})
	assert.Error(t, err)

	_, err = store.CreateMovement(ctx, ledger.NewMovement{
		OwnerID: testOwner, Date: dateutils.Date(2024, time.January, 1),
		Type: models.TypeExpense, Amount: decimal.NewFromInt(10),
		AccountID: account.ID, CategoryID: "missing",
	})
	assert.Error(t, err)
}

func TestListMovementsOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	store, account, category := seeded(t)

	for _, day := range []int{10, 5, 20} {
		_, err := store.CreateMovement(ctx, ledger.NewMovement{
			OwnerID: testOwner, Date: dateutils.Date(2024, time.January, day),
			Type: models.TypeExpense, Amount: decimal.NewFromInt(int64(day)),
			AccountID: account.ID, CategoryID: category.ID,
		})
		require.NoError(t, err)
	}

	movements, err := store.ListMovements(ctx, ledger.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.Equal(t, 20, movements[0].Date.Day())
	assert.Equal(t, 10, movements[1].Date.Day())
	assert.Equal(t, 5, movements[2].Date.Day())
	assert.Equal(t, "Banco", movements[0].AccountName)
	assert.Equal(t, "Comida", movements[0].CategoryName)

	start := dateutils.Date(2024, time.January, 8)
	end := dateutils.Date(2024, time.January, 15)
	ranged, err := store.ListMovements(ctx, ledger.MovementFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, 10, ranged[0].Date.Day())
}

func TestMovementUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store, account, category := seeded(t)

	m, err := store.CreateMovement(ctx, ledger.NewMovement{
		OwnerID: testOwner, Date: dateutils.Date(2024, time.January, 1),
		Type: models.TypeExpense, Amount: decimal.NewFromInt(10),
		AccountID: account.ID, CategoryID: category.ID,
	})
	require.NoError(t, err)

	updated, err := store.UpdateMovement(ctx, m.ID, ledger.NewMovement{
		OwnerID: testOwner, Date: dateutils.Date(2024, time.January, 2),
		Type: models.TypeExpense, Amount: decimal.NewFromInt(25),
		AccountID: account.ID, CategoryID: category.ID, Note: "ajuste",
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "ajuste", updated.Note)
	assert.Equal(t, m.ID, updated.ID)

	require.NoError(t, store.DeleteMovement(ctx, m.ID))
	err = store.DeleteMovement(ctx, m.ID)
	assert.True(t, finerrors.IsNotFound(err))
}

func TestUpsertDayNoteSemantics(t *testing.T) {
	ctx := context.Background()
	store, _, _ := seeded(t)
	day := dateutils.Date(2024, time.April, 1)

	// No note yet.
	got, err := store.GetDayNote(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Create.
	note, err := store.UpsertDayNote(ctx, testOwner, day, "primer día")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "primer día", note.Note)

	// Replace keeps one row per day.
	note, err = store.UpsertDayNote(ctx, testOwner, day, "actualizada")
	require.NoError(t, err)
	require.NotNil(t, note)

	notes, err := store.ListDayNotes(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "actualizada", notes[0].Note)

	// Whitespace-only deletes.
	note, err = store.UpsertDayNote(ctx, testOwner, day, "   ")
	require.NoError(t, err)
	assert.Nil(t, note)

	got, err = store.GetDayNote(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotUniquePerAccountAndDay(t *testing.T) {
	ctx := context.Background()
	store, account, _ := seeded(t)
	day := dateutils.Date(2024, time.January, 31)

	_, err := store.CreateSnapshot(ctx, ledger.NewSnapshot{
		OwnerID: testOwner, AccountID: account.ID, Date: day,
		Balance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	_, err = store.CreateSnapshot(ctx, ledger.NewSnapshot{
		OwnerID: testOwner, AccountID: account.ID, Date: day,
		Balance: decimal.NewFromInt(2000),
	})
	assert.True(t, finerrors.IsConflict(err))
}

func TestTemplateValidation(t *testing.T) {
	ctx := context.Background()
	store, account, category := seeded(t)

	valid := ledger.NewTemplate{
		OwnerID: testOwner, Name: "Alquiler", Type: models.TypeExpense,
		Amount: decimal.NewFromInt(900), DayOfMonth: 1,
		AccountID: account.ID, CategoryID: category.ID,
	}

	_, err := store.CreateTemplate(ctx, valid)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(t ledger.NewTemplate) ledger.NewTemplate
	}{
		{"empty name", func(n ledger.NewTemplate) ledger.NewTemplate { n.Name = ""; return n }},
		{"transfer type", func(n ledger.NewTemplate) ledger.NewTemplate { n.Type = models.TypeTransfer; return n }},
		{"zero amount", func(n ledger.NewTemplate) ledger.NewTemplate { n.Amount = decimal.Zero; return n }},
		{"day 0", func(n ledger.NewTemplate) ledger.NewTemplate { n.DayOfMonth = 0; return n }},
		{"day 32", func(n ledger.NewTemplate) ledger.NewTemplate { n.DayOfMonth = 32; return n }},
		{"missing account", func(n ledger.NewTemplate) ledger.NewTemplate { n.AccountID = "missing"; return n }},
		{"kind mismatch", func(n ledger.NewTemplate) ledger.NewTemplate { n.Type = models.TypeIncome; return n }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateTemplate(ctx, tt.mutate(valid))
			assert.Error(t, err)
		})
	}
}
