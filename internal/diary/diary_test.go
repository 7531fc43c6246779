package diary

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
	"finanzas/internal/storage/memory"
)

const testOwner = "owner-1"

func TestEntriesMergeMovementsAndNotes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(testOwner)

	account, err := store.CreateAccount(ctx, ledger.NewAccount{
		OwnerID: testOwner, Name: "Banco", Type: models.AccountBank,
	})
	require.NoError(t, err)
	food, err := store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Comida", Kind: models.KindExpense,
	})
	require.NoError(t, err)

	day1 := dateutils.Date(2024, time.July, 1)
	day2 := dateutils.Date(2024, time.July, 2)
	day3 := dateutils.Date(2024, time.July, 3)

	// day1: movement only. day2: note only. day3: both.
	_, err = store.CreateMovement(ctx, ledger.NewMovement{
		OwnerID: testOwner, Date: day1, Type: models.TypeExpense,
		Amount: decimal.NewFromInt(20), AccountID: account.ID, CategoryID: food.ID,
	})
	require.NoError(t, err)
	_, err = store.UpsertDayNote(ctx, testOwner, day2, "día tranquilo")
	require.NoError(t, err)
	_, err = store.CreateMovement(ctx, ledger.NewMovement{
		OwnerID: testOwner, Date: day3, Type: models.TypeExpense,
		Amount: decimal.NewFromInt(5), AccountID: account.ID, CategoryID: food.ID,
	})
	require.NoError(t, err)
	_, err = store.UpsertDayNote(ctx, testOwner, day3, "café")
	require.NoError(t, err)

	d := NewDiary(store, logging.NewMockLogger())
	start, end := dateutils.MonthRange(2024, time.July)
	entries, err := d.Entries(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Most recent day first.
	assert.True(t, entries[0].Date.Equal(day3))
	assert.True(t, entries[0].HasNote)
	assert.Equal(t, "café", entries[0].Note)
	assert.Equal(t, 1, entries[0].Rollup.Count)

	assert.True(t, entries[1].Date.Equal(day2))
	assert.True(t, entries[1].HasNote)
	assert.Equal(t, 0, entries[1].Rollup.Count)

	assert.True(t, entries[2].Date.Equal(day1))
	assert.False(t, entries[2].HasNote)
	assert.True(t, entries[2].Rollup.Expense.Equal(decimal.NewFromInt(20)))
}

func TestEntryOnEmptyDay(t *testing.T) {
	store := memory.NewStore(testOwner)
	d := NewDiary(store, logging.NewMockLogger())

	entry, err := d.EntryOn(context.Background(), dateutils.Date(2024, time.July, 15))
	require.NoError(t, err)
	assert.True(t, entry.Date.Equal(dateutils.Date(2024, time.July, 15)))
	assert.False(t, entry.HasNote)
	assert.Equal(t, 0, entry.Rollup.Count)
}
