// Package diary merges per-day movement rollups with free-text day notes
// into a chronological journal view.
package diary

import (
	"context"
	"sort"
	"time"

	"finanzas/internal/aggregate"
	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// Store is the slice of the ledger the diary needs.
type Store interface {
	ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]models.MovementWithNames, error)
	ListDayNotes(ctx context.Context, start, end time.Time) ([]models.DayNote, error)
}

// Entry is one day of the journal: the day's movements rolled up, plus its
// note when one exists. A day appears when it has movements, a note, or both.
type Entry struct {
	Date    time.Time
	Rollup  aggregate.DayRollup
	Note    string
	HasNote bool
}

// Diary assembles journal entries over date ranges.
type Diary struct {
	store  Store
	logger logging.Logger
}

// NewDiary creates a Diary backed by the given store.
func NewDiary(store Store, logger logging.Logger) *Diary {
	return &Diary{
		store:  store,
		logger: logger,
	}
}

// Entries returns the journal for [start, end], most recent day first.
// Transfers are included in each day's movement list but never in its sums.
func (d *Diary) Entries(ctx context.Context, start, end time.Time) ([]Entry, error) {
	agg := aggregate.NewAggregator(d.store, d.logger)
	rollups, err := agg.DailyRollup(ctx, start, end, true)
	if err != nil {
		return nil, err
	}

	notes, err := d.store.ListDayNotes(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]Entry)
	for day, r := range rollups {
		byDay[day] = Entry{Date: day, Rollup: r}
	}
	for _, n := range notes {
		day := dateutils.Day(n.Date)
		e := byDay[day]
		e.Date = day
		e.Note = n.Note
		e.HasNote = true
		byDay[day] = e
	}

	entries := make([]Entry, 0, len(byDay))
	for _, e := range byDay {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })

	return entries, nil
}

// EntryOn returns the journal entry for a single day, which may be empty.
func (d *Diary) EntryOn(ctx context.Context, date time.Time) (Entry, error) {
	day := dateutils.Day(date)
	entries, err := d.Entries(ctx, day, day)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{Date: day}, nil
	}
	return entries[0], nil
}
