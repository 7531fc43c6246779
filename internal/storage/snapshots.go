package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/models"
)

// ListSnapshots returns snapshots matching the filter in ascending date order.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, filter ledger.SnapshotFilter) ([]models.Snapshot, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_id, account_id, date, balance, created_at
		FROM snapshots WHERE owner_id = ?`)
	args := []interface{}{s.ownerID}

	if filter.AccountID != "" {
		sb.WriteString(" AND account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.StartDate != nil {
		sb.WriteString(" AND date >= ?")
		args = append(args, dateutils.ToISO(*filter.StartDate))
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND date <= ?")
		args = append(args, dateutils.ToISO(*filter.EndDate))
	}
	sb.WriteString(" ORDER BY date ASC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows.Scan)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// CreateSnapshot stores a new snapshot. The referenced account must exist,
// and at most one snapshot may exist per account and date.
func (s *SQLiteStore) CreateSnapshot(ctx context.Context, ns ledger.NewSnapshot) (models.Snapshot, error) {
	ok, err := s.exists(ctx, "accounts", ns.AccountID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if !ok {
		return models.Snapshot{}, &finerrors.NotFoundError{Entity: "account", ID: ns.AccountID}
	}

	day := dateutils.Day(ns.Date)

	var one int
	err = s.db.QueryRowContext(ctx,
		"SELECT 1 FROM snapshots WHERE owner_id = ? AND account_id = ? AND date = ?",
		s.ownerID, ns.AccountID, dateutils.ToISO(day)).Scan(&one)
	if err == nil {
		return models.Snapshot{}, &finerrors.ConflictError{
			Entity: "snapshot",
			Reason: "snapshot already exists for account " + ns.AccountID + " on " + dateutils.ToISO(day),
		}
	}
	if err != sql.ErrNoRows {
		return models.Snapshot{}, err
	}

	snap := models.Snapshot{
		ID:        newID(),
		OwnerID:   ns.OwnerID,
		AccountID: ns.AccountID,
		Date:      day,
		Balance:   ns.Balance,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, owner_id, account_id, date, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.OwnerID, snap.AccountID, dateutils.ToISO(snap.Date),
		snap.Balance.String(), snap.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// UpdateSnapshotBalance mutates only the balance of an existing snapshot.
func (s *SQLiteStore) UpdateSnapshotBalance(ctx context.Context, id string, balance decimal.Decimal) (models.Snapshot, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE snapshots SET balance = ? WHERE id = ? AND owner_id = ?",
		balance.String(), id, s.ownerID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Snapshot{}, &finerrors.NotFoundError{Entity: "snapshot", ID: id}
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, account_id, date, balance, created_at
		FROM snapshots WHERE id = ? AND owner_id = ?`, id, s.ownerID)
	return scanSnapshot(row.Scan)
}

// DeleteSnapshot removes a snapshot.
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE id = ? AND owner_id = ?", id, s.ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &finerrors.NotFoundError{Entity: "snapshot", ID: id}
	}
	return nil
}

func scanSnapshot(scan func(dest ...interface{}) error) (models.Snapshot, error) {
	var (
		snap                         models.Snapshot
		dateStr, balanceStr, created string
	)
	err := scan(&snap.ID, &snap.OwnerID, &snap.AccountID, &dateStr, &balanceStr, &created)
	if err != nil {
		return models.Snapshot{}, err
	}
	if snap.Date, err = parseDay(dateStr); err != nil {
		return models.Snapshot{}, err
	}
	if snap.Balance, err = parseAmount(balanceStr); err != nil {
		return models.Snapshot{}, err
	}
	snap.CreatedAt = parseCreatedAt(created)
	return snap, nil
}
