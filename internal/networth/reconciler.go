// Package networth merges manually recorded balance snapshots into net-worth
// figures. Net worth here reflects recorded snapshots only: an account with
// no snapshot at or before the reference date contributes nothing, not its
// opening balance. That is deliberate and distinct from balance
// reconstruction.
package networth

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

// Store is the slice of the ledger the reconciler needs.
type Store interface {
	ListSnapshots(ctx context.Context, filter ledger.SnapshotFilter) ([]models.Snapshot, error)
	CreateSnapshot(ctx context.Context, s ledger.NewSnapshot) (models.Snapshot, error)
	UpdateSnapshotBalance(ctx context.Context, id string, balance decimal.Decimal) (models.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// SeriesPoint is the net worth recorded on one date: the sum of the
// snapshots taken exactly on that date, broken down per account.
type SeriesPoint struct {
	Date       time.Time
	Total      decimal.Decimal
	PerAccount map[string]decimal.Decimal
}

// Reconciler reads and writes snapshots and derives net-worth figures.
type Reconciler struct {
	store  Store
	logger logging.Logger
}

// NewReconciler creates a Reconciler backed by the given store.
func NewReconciler(store Store, logger logging.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger,
	}
}

// TotalNetWorth sums, across all accounts, the balance of each account's
// latest snapshot dated at or before asOf. Ties are impossible because
// snapshots are unique per account and date.
func (r *Reconciler) TotalNetWorth(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	cutoff := dateutils.Day(asOf)
	snapshots, err := r.store.ListSnapshots(ctx, ledger.SnapshotFilter{EndDate: &cutoff})
	if err != nil {
		return decimal.Zero, err
	}

	type latest struct {
		date    time.Time
		balance decimal.Decimal
	}
	latestByAccount := make(map[string]latest)
	for _, s := range snapshots {
		cur, ok := latestByAccount[s.AccountID]
		if !ok || s.Date.After(cur.date) {
			latestByAccount[s.AccountID] = latest{date: s.Date, balance: s.Balance}
		}
	}

	total := decimal.Zero
	for _, l := range latestByAccount {
		total = total.Add(l.balance)
	}

	r.logger.Debug("computed total net worth",
		logging.F("as_of", dateutils.ToISO(cutoff)),
		logging.F("accounts", len(latestByAccount)),
		logging.F("total", total.String()))

	return total, nil
}

// NetWorthSeries groups the snapshots in [start, end] by date, summing the
// balances of the accounts that reported a snapshot on exactly that date.
// Gaps are not forward-filled: an account missing a snapshot on a given date
// simply lowers that date's total. Points are returned in ascending date
// order.
func (r *Reconciler) NetWorthSeries(ctx context.Context, start, end time.Time) ([]SeriesPoint, error) {
	if start.After(end) {
		return nil, &finerrors.InvalidRangeError{Start: start, End: end}
	}

	s, e := dateutils.Day(start), dateutils.Day(end)
	snapshots, err := r.store.ListSnapshots(ctx, ledger.SnapshotFilter{StartDate: &s, EndDate: &e})
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]*SeriesPoint)
	for _, snap := range snapshots {
		day := dateutils.Day(snap.Date)
		point, ok := byDate[day]
		if !ok {
			point = &SeriesPoint{
				Date:       day,
				Total:      decimal.Zero,
				PerAccount: make(map[string]decimal.Decimal),
			}
			byDate[day] = point
		}
		point.Total = point.Total.Add(snap.Balance)
		point.PerAccount[snap.AccountID] = snap.Balance
	}

	series := make([]SeriesPoint, 0, len(byDate))
	for _, point := range byDate {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series, nil
}

// CreateSnapshot records an actual balance for an account on a date. It
// fails with *finerrors.ConflictError when a snapshot already exists for
// that account and date, and with *finerrors.NotFoundError when the account
// does not exist.
func (r *Reconciler) CreateSnapshot(ctx context.Context, s ledger.NewSnapshot) (models.Snapshot, error) {
	s.Date = dateutils.Day(s.Date)
	return r.store.CreateSnapshot(ctx, s)
}

// UpdateSnapshot mutates the balance of an existing snapshot.
func (r *Reconciler) UpdateSnapshot(ctx context.Context, id string, balance decimal.Decimal) (models.Snapshot, error) {
	return r.store.UpdateSnapshotBalance(ctx, id, balance)
}

// DeleteSnapshot removes a snapshot.
func (r *Reconciler) DeleteSnapshot(ctx context.Context, id string) error {
	return r.store.DeleteSnapshot(ctx, id)
}
