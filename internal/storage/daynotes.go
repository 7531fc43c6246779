package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"finanzas/internal/dateutils"
	"finanzas/internal/models"
)

// GetDayNote returns the note for a date, or nil when none exists.
func (s *SQLiteStore) GetDayNote(ctx context.Context, date time.Time) (*models.DayNote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, date, note, created_at
		FROM day_notes WHERE owner_id = ? AND date = ?`,
		s.ownerID, dateutils.ToISO(dateutils.Day(date)))

	note, err := scanDayNote(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// ListDayNotes returns all notes dated within [start, end], ascending.
func (s *SQLiteStore) ListDayNotes(ctx context.Context, start, end time.Time) ([]models.DayNote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, date, note, created_at
		FROM day_notes WHERE owner_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		s.ownerID, dateutils.ToISO(dateutils.Day(start)), dateutils.ToISO(dateutils.Day(end)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.DayNote
	for rows.Next() {
		n, err := scanDayNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpsertDayNote creates or replaces the note for a date. An empty or
// whitespace-only note deletes the row instead and returns nil.
func (s *SQLiteStore) UpsertDayNote(ctx context.Context, ownerID string, date time.Time, note string) (*models.DayNote, error) {
	day := dateutils.ToISO(dateutils.Day(date))

	if strings.TrimSpace(note) == "" {
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM day_notes WHERE owner_id = ? AND date = ?", s.ownerID, day)
		return nil, err
	}

	existing, err := s.GetDayNote(ctx, date)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		_, err := s.db.ExecContext(ctx,
			"UPDATE day_notes SET note = ? WHERE id = ? AND owner_id = ?",
			note, existing.ID, s.ownerID)
		if err != nil {
			return nil, err
		}
		existing.Note = note
		return existing, nil
	}

	n := models.DayNote{
		ID:        newID(),
		OwnerID:   ownerID,
		Date:      dateutils.Day(date),
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO day_notes (id, owner_id, date, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, day, n.Note, n.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func scanDayNote(scan func(dest ...interface{}) error) (models.DayNote, error) {
	var (
		n                models.DayNote
		dateStr, created string
	)
	err := scan(&n.ID, &n.OwnerID, &dateStr, &n.Note, &created)
	if err != nil {
		return models.DayNote{}, err
	}
	if n.Date, err = parseDay(dateStr); err != nil {
		return models.DayNote{}, err
	}
	n.CreatedAt = parseCreatedAt(created)
	return n, nil
}
