// Package aggregate produces derived views over a date range: monthly
// income/expense totals, expense breakdowns by category, and per-day rollups
// for calendar and diary display.
package aggregate

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// Reader is the slice of the ledger store the aggregator needs.
type Reader interface {
	ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]models.MovementWithNames, error)
}

// MonthTotals holds the income and expense sums of one calendar month.
type MonthTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is one slice of an expense breakdown. Percentage shares are
// computed by the caller via Share.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Total        decimal.Decimal
}

// DayRollup is the aggregate of a single calendar day.
type DayRollup struct {
	Income    decimal.Decimal
	Expense   decimal.Decimal
	Count     int
	Movements []models.MovementWithNames
}

// Aggregator computes the derived views. All operations are pure reads.
type Aggregator struct {
	store  Reader
	logger logging.Logger
}

// NewAggregator creates an Aggregator backed by the given store.
func NewAggregator(store Reader, logger logging.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: logger,
	}
}

// MonthlyTotals sums non-transfer movement amounts per calendar month of the
// given year. Every month index 0..11 is present; months with no movements
// report zero totals.
func (a *Aggregator) MonthlyTotals(ctx context.Context, year int) (map[int]MonthTotals, error) {
	start, end := dateutils.YearRange(year)

	movements, err := a.store.ListMovements(ctx, ledger.MovementFilter{
		StartDate:        &start,
		EndDate:          &end,
		ExcludeTransfers: true,
	})
	if err != nil {
		return nil, err
	}

	totals := make(map[int]MonthTotals, 12)
	for i := 0; i < 12; i++ {
		totals[i] = MonthTotals{Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, m := range movements {
		idx := int(m.Date.Month()) - 1
		t := totals[idx]
		switch m.Type {
		case models.TypeIncome:
			t.Income = t.Income.Add(contribution(m.Movement))
		case models.TypeExpense:
			t.Expense = t.Expense.Add(contribution(m.Movement))
		}
		totals[idx] = t
	}

	return totals, nil
}

// CategoryBreakdown sums expense amounts grouped by category within the
// range, optionally restricted to one fixed/variable flag. Movements whose
// category cannot be resolved are dropped from the breakdown. The result is
// sorted by total, largest first.
func (a *Aggregator) CategoryBreakdown(ctx context.Context, start, end time.Time, fixedVar *models.FixedFlag) ([]CategoryTotal, error) {
	if start.After(end) {
		return nil, &finerrors.InvalidRangeError{Start: start, End: end}
	}

	expense := models.TypeExpense
	movements, err := a.store.ListMovements(ctx, ledger.MovementFilter{
		StartDate: &start,
		EndDate:   &end,
		Type:      &expense,
		FixedVar:  fixedVar,
	})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*CategoryTotal)
	for _, m := range movements {
		if m.CategoryID == "" || m.CategoryName == "" {
			continue
		}
		ct, ok := byCategory[m.CategoryID]
		if !ok {
			ct = &CategoryTotal{
				CategoryID:   m.CategoryID,
				CategoryName: m.CategoryName,
				Total:        decimal.Zero,
			}
			byCategory[m.CategoryID] = ct
		}
		ct.Total = ct.Total.Add(contribution(m.Movement))
	}

	breakdown := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		breakdown = append(breakdown, *ct)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Total.Equal(breakdown[j].Total) {
			return breakdown[i].Total.GreaterThan(breakdown[j].Total)
		}
		return breakdown[i].CategoryName < breakdown[j].CategoryName
	})

	return breakdown, nil
}

// DailyRollup returns per-day income/expense sums for the range. Transfers
// never contribute to the sums; when includeTransfers is set they still
// appear in Count and Movements. Only days with at least one matching
// movement are present in the map, keyed by normalized day.
func (a *Aggregator) DailyRollup(ctx context.Context, start, end time.Time, includeTransfers bool) (map[time.Time]DayRollup, error) {
	if start.After(end) {
		return nil, &finerrors.InvalidRangeError{Start: start, End: end}
	}

	movements, err := a.store.ListMovements(ctx, ledger.MovementFilter{
		StartDate:        &start,
		EndDate:          &end,
		ExcludeTransfers: !includeTransfers,
	})
	if err != nil {
		return nil, err
	}

	rollup := make(map[time.Time]DayRollup)
	for _, m := range movements {
		day := dateutils.Day(m.Date)
		r := rollup[day]
		switch m.Type {
		case models.TypeIncome:
			r.Income = r.Income.Add(contribution(m.Movement))
		case models.TypeExpense:
			r.Expense = r.Expense.Add(contribution(m.Movement))
		}
		r.Count++
		r.Movements = append(r.Movements, m)
		rollup[day] = r
	}

	return rollup, nil
}

// Share returns part/total as a percentage. When total is zero the share is
// zero by convention, never NaN.
func Share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100))
}

// contribution treats a non-positive amount as zero.
func contribution(m models.Movement) decimal.Decimal {
	if !m.Amount.IsPositive() {
		return decimal.Zero
	}
	return m.Amount
}
