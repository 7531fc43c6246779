package aggregate

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
	"finanzas/internal/logging"
	"finanzas/internal/models"
	"finanzas/internal/storage/memory"
)

const testOwner = "owner-1"

type testLedger struct {
	store  *memory.Store
	bank   models.Account
	cash   models.Account
	food   models.Category
	rent   models.Category
	salary models.Category
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(testOwner)
	l := &testLedger{store: store}
	var err error

	l.bank, err = store.CreateAccount(ctx, ledger.NewAccount{
		OwnerID: testOwner, Name: "Banco", Type: models.AccountBank,
	})
	require.NoError(t, err)
	l.cash, err = store.CreateAccount(ctx, ledger.NewAccount{
		OwnerID: testOwner, Name: "Efectivo", Type: models.AccountCash,
	})
	require.NoError(t, err)

	l.food, err = store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Comida", Kind: models.KindExpense,
	})
	require.NoError(t, err)
	l.rent, err = store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Alquiler", Kind: models.KindExpense, IsFixed: true,
	})
	require.NoError(t, err)
	l.salary, err = store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Nómina", Kind: models.KindIncome,
	})
	require.NoError(t, err)

	return l
}

func (l *testLedger) expense(t *testing.T, date time.Time, amount string, category models.Category, flag *models.FixedFlag) {
	t.Helper()
	_, err := l.store.CreateMovement(context.Background(), ledger.NewMovement{
		OwnerID: testOwner, Date: date, Type: models.TypeExpense,
		Amount: decimal.RequireFromString(amount), AccountID: l.bank.ID,
		CategoryID: category.ID, FixedVar: flag,
	})
	require.NoError(t, err)
}

func (l *testLedger) income(t *testing.T, date time.Time, amount string) {
	t.Helper()
	_, err := l.store.CreateMovement(context.Background(), ledger.NewMovement{
		OwnerID: testOwner, Date: date, Type: models.TypeIncome,
		Amount: decimal.RequireFromString(amount), AccountID: l.bank.ID,
		CategoryID: l.salary.ID,
	})
	require.NoError(t, err)
}

func (l *testLedger) transfer(t *testing.T, date time.Time, amount string) {
	t.Helper()
	_, err := l.store.CreateMovement(context.Background(), ledger.NewMovement{
		OwnerID: testOwner, Date: date, Type: models.TypeTransfer,
		Amount: decimal.RequireFromString(amount),
		AccountFromID: l.bank.ID, AccountToID: l.cash.ID,
	})
	require.NoError(t, err)
}

func TestMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	l.income(t, dateutils.Date(2024, time.January, 5), "1800")
	l.expense(t, dateutils.Date(2024, time.January, 10), "300.50", l.food, nil)
	l.expense(t, dateutils.Date(2024, time.March, 2), "99.99", l.food, nil)
	l.transfer(t, dateutils.Date(2024, time.January, 15), "500")
	// Outside the year.
	l.expense(t, dateutils.Date(2023, time.December, 31), "10", l.food, nil)

	agg := NewAggregator(l.store, logging.NewMockLogger())
	totals, err := agg.MonthlyTotals(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, totals, 12)

	jan := totals[0]
	assert.True(t, jan.Income.Equal(decimal.NewFromInt(1800)))
	assert.True(t, jan.Expense.Equal(decimal.RequireFromString("300.50")), "transfers must not count")

	mar := totals[2]
	assert.True(t, mar.Income.IsZero())
	assert.True(t, mar.Expense.Equal(decimal.RequireFromString("99.99")))

	// Months with no movements are present with zero totals.
	for _, idx := range []int{1, 3, 4, 5, 6, 7, 8, 9, 10, 11} {
		assert.True(t, totals[idx].Income.IsZero(), "month %d", idx)
		assert.True(t, totals[idx].Expense.IsZero(), "month %d", idx)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	start, end := dateutils.MonthRange(2024, time.January)

	l.expense(t, dateutils.Date(2024, time.January, 3), "100", l.food, models.FlagPtr(models.FlagVariable))
	l.expense(t, dateutils.Date(2024, time.January, 20), "50", l.food, models.FlagPtr(models.FlagVariable))
	l.expense(t, dateutils.Date(2024, time.January, 1), "900", l.rent, models.FlagPtr(models.FlagFixed))
	l.income(t, dateutils.Date(2024, time.January, 5), "1800")
	// Outside the range.
	l.expense(t, dateutils.Date(2024, time.February, 1), "777", l.food, nil)

	agg := NewAggregator(l.store, logging.NewMockLogger())

	breakdown, err := agg.CategoryBreakdown(ctx, start, end, nil)
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	// Sorted by total, largest first.
	assert.Equal(t, "Alquiler", breakdown[0].CategoryName)
	assert.True(t, breakdown[0].Total.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, "Comida", breakdown[1].CategoryName)
	assert.True(t, breakdown[1].Total.Equal(decimal.NewFromInt(150)))

	// Restricted to fixed expenses.
	fixed, err := agg.CategoryBreakdown(ctx, start, end, models.FlagPtr(models.FlagFixed))
	require.NoError(t, err)
	require.Len(t, fixed, 1)
	assert.Equal(t, "Alquiler", fixed[0].CategoryName)
}

func TestCategoryBreakdownInvalidRange(t *testing.T) {
	l := newTestLedger(t)
	agg := NewAggregator(l.store, logging.NewMockLogger())

	_, err := agg.CategoryBreakdown(context.Background(),
		dateutils.Date(2024, time.February, 1), dateutils.Date(2024, time.January, 1), nil)
	require.Error(t, err)
	assert.True(t, finerrors.IsInvalidRange(err))
}

func TestCategoryBreakdownMatchesMonthlyTotals(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	l.expense(t, dateutils.Date(2024, time.May, 3), "123.45", l.food, nil)
	l.expense(t, dateutils.Date(2024, time.May, 10), "67.89", l.rent, nil)
	l.transfer(t, dateutils.Date(2024, time.May, 12), "1000")

	agg := NewAggregator(l.store, logging.NewMockLogger())

	totals, err := agg.MonthlyTotals(ctx, 2024)
	require.NoError(t, err)

	start, end := dateutils.MonthRange(2024, time.May)
	breakdown, err := agg.CategoryBreakdown(ctx, start, end, nil)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, ct := range breakdown {
		sum = sum.Add(ct.Total)
	}
	assert.True(t, sum.Equal(totals[4].Expense),
		"breakdown sum %s must equal monthly expense %s", sum, totals[4].Expense)
}

func TestDailyRollup(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	day1 := dateutils.Date(2024, time.June, 1)
	day2 := dateutils.Date(2024, time.June, 2)

	l.income(t, day1, "100")
	l.expense(t, day1, "40", l.food, nil)
	l.transfer(t, day2, "500")

	agg := NewAggregator(l.store, logging.NewMockLogger())

	start, end := dateutils.MonthRange(2024, time.June)

	// Without transfers only day1 appears.
	rollup, err := agg.DailyRollup(ctx, start, end, false)
	require.NoError(t, err)
	require.Len(t, rollup, 1)
	r1 := rollup[day1]
	assert.True(t, r1.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, r1.Expense.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 2, r1.Count)

	// With transfers day2 appears, but the transfer stays out of the sums.
	rollup, err = agg.DailyRollup(ctx, start, end, true)
	require.NoError(t, err)
	require.Len(t, rollup, 2)
	r2 := rollup[day2]
	assert.True(t, r2.Income.IsZero())
	assert.True(t, r2.Expense.IsZero())
	assert.Equal(t, 1, r2.Count)
	require.Len(t, r2.Movements, 1)
	assert.True(t, r2.Movements[0].IsTransfer())
}

func TestShare(t *testing.T) {
	assert.True(t, Share(decimal.NewFromInt(25), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(25)))
	assert.True(t, Share(decimal.NewFromInt(25), decimal.Zero).IsZero(), "zero total never divides")
	assert.True(t, Share(decimal.Zero, decimal.NewFromInt(100)).IsZero())
}
