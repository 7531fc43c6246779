package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

const movementColumns = `m.id, m.owner_id, m.date, m.type, m.amount,
	m.account_id, m.account_from_id, m.account_to_id, m.category_id,
	m.fixed_var, m.note, m.created_at,
	COALESCE(a.name, ''), COALESCE(af.name, ''), COALESCE(at.name, ''), COALESCE(c.name, '')`

const movementJoins = `
	LEFT JOIN accounts a ON m.account_id = a.id
	LEFT JOIN accounts af ON m.account_from_id = af.id
	LEFT JOIN accounts at ON m.account_to_id = at.id
	LEFT JOIN categories c ON m.category_id = c.id`

// ListMovements returns movements matching the filter, date descending, with
// referenced account and category names resolved.
func (s *SQLiteStore) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]models.MovementWithNames, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + movementColumns + " FROM movements m" + movementJoins)
	sb.WriteString(" WHERE m.owner_id = ?")
	args := []interface{}{s.ownerID}

	if filter.StartDate != nil {
		sb.WriteString(" AND m.date >= ?")
		args = append(args, dateutils.ToISO(*filter.StartDate))
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND m.date <= ?")
		args = append(args, dateutils.ToISO(*filter.EndDate))
	}
	if filter.Type != nil {
		sb.WriteString(" AND m.type = ?")
		args = append(args, string(*filter.Type))
	}
	if filter.AccountID != "" {
		sb.WriteString(" AND (m.account_id = ? OR m.account_from_id = ? OR m.account_to_id = ?)")
		args = append(args, filter.AccountID, filter.AccountID, filter.AccountID)
	}
	if filter.CategoryID != "" {
		sb.WriteString(" AND m.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.FixedVar != nil {
		sb.WriteString(" AND m.fixed_var = ?")
		args = append(args, string(*filter.FixedVar))
	}
	if filter.ExcludeTransfers {
		sb.WriteString(" AND m.type != 'transfer'")
	}
	sb.WriteString(" ORDER BY m.date DESC, m.created_at DESC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// MovementsOn returns all movements dated exactly on the given day.
func (s *SQLiteStore) MovementsOn(ctx context.Context, date time.Time) ([]models.MovementWithNames, error) {
	query := "SELECT " + movementColumns + " FROM movements m" + movementJoins +
		" WHERE m.owner_id = ? AND m.date = ? ORDER BY m.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, s.ownerID, dateutils.ToISO(dateutils.Day(date)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovements(rows)
}

// CreateMovement validates and stores a new movement. Structural problems
// and broken references surface as *finerrors.ValidationError.
func (s *SQLiteStore) CreateMovement(ctx context.Context, nm ledger.NewMovement) (models.Movement, error) {
	m := models.Movement{
		ID:            newID(),
		OwnerID:       nm.OwnerID,
		Date:          dateutils.Day(nm.Date),
		Type:          nm.Type,
		Amount:        nm.Amount,
		AccountID:     nm.AccountID,
		AccountFromID: nm.AccountFromID,
		AccountToID:   nm.AccountToID,
		CategoryID:    nm.CategoryID,
		FixedVar:      nm.FixedVar,
		Note:          nm.Note,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.validateMovement(ctx, m); err != nil {
		return models.Movement{}, err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO movements (id, owner_id, date, type, amount, account_id,
			account_from_id, account_to_id, category_id, fixed_var, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, dateutils.ToISO(m.Date), string(m.Type), m.Amount.String(),
		nullable(m.AccountID), nullable(m.AccountFromID), nullable(m.AccountToID),
		nullable(m.CategoryID), nullableFlag(m.FixedVar), nullable(m.Note),
		m.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Movement{}, err
	}

	s.logger.Debug("created movement",
		logging.F("id", m.ID),
		logging.F("type", string(m.Type)),
		logging.F("amount", m.Amount.String()))

	return m, nil
}

// UpdateMovement replaces the mutable fields of an existing movement.
func (s *SQLiteStore) UpdateMovement(ctx context.Context, id string, nm ledger.NewMovement) (models.Movement, error) {
	existing, err := s.getMovement(ctx, id)
	if err != nil {
		return models.Movement{}, err
	}

	updated := existing
	updated.Date = dateutils.Day(nm.Date)
	updated.Type = nm.Type
	updated.Amount = nm.Amount
	updated.AccountID = nm.AccountID
	updated.AccountFromID = nm.AccountFromID
	updated.AccountToID = nm.AccountToID
	updated.CategoryID = nm.CategoryID
	updated.FixedVar = nm.FixedVar
	updated.Note = nm.Note

	if err := s.validateMovement(ctx, updated); err != nil {
		return models.Movement{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE movements SET date = ?, type = ?, amount = ?, account_id = ?,
			account_from_id = ?, account_to_id = ?, category_id = ?, fixed_var = ?, note = ?
		WHERE id = ? AND owner_id = ?`,
		dateutils.ToISO(updated.Date), string(updated.Type), updated.Amount.String(),
		nullable(updated.AccountID), nullable(updated.AccountFromID), nullable(updated.AccountToID),
		nullable(updated.CategoryID), nullableFlag(updated.FixedVar), nullable(updated.Note),
		id, s.ownerID)
	if err != nil {
		return models.Movement{}, err
	}

	return updated, nil
}

// DeleteMovement removes a movement.
func (s *SQLiteStore) DeleteMovement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM movements WHERE id = ? AND owner_id = ?", id, s.ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &finerrors.NotFoundError{Entity: "movement", ID: id}
	}
	return nil
}

func (s *SQLiteStore) getMovement(ctx context.Context, id string) (models.Movement, error) {
	query := "SELECT " + movementColumns + " FROM movements m" + movementJoins +
		" WHERE m.id = ? AND m.owner_id = ?"
	rows, err := s.db.QueryContext(ctx, query, id, s.ownerID)
	if err != nil {
		return models.Movement{}, err
	}
	defer rows.Close()

	movements, err := scanMovements(rows)
	if err != nil {
		return models.Movement{}, err
	}
	if len(movements) == 0 {
		return models.Movement{}, &finerrors.NotFoundError{Entity: "movement", ID: id}
	}
	return movements[0].Movement, nil
}

// validateMovement enforces the structural invariants and referential
// integrity of a movement before any write.
func (s *SQLiteStore) validateMovement(ctx context.Context, m models.Movement) error {
	if err := m.Validate(); err != nil {
		return &finerrors.ValidationError{Reason: "invalid movement", Err: err}
	}

	for _, accountID := range []string{m.AccountID, m.AccountFromID, m.AccountToID} {
		if accountID == "" {
			continue
		}
		ok, err := s.exists(ctx, "accounts", accountID)
		if err != nil {
			return err
		}
		if !ok {
			return &finerrors.ValidationError{Reason: "movement references unknown account " + accountID}
		}
	}

	if m.CategoryID != "" {
		category, err := s.GetCategory(ctx, m.CategoryID)
		if err != nil {
			if finerrors.IsNotFound(err) {
				return &finerrors.ValidationError{Reason: "movement references unknown category " + m.CategoryID}
			}
			return err
		}
		if string(category.Kind) != string(m.Type) {
			return &finerrors.ValidationError{
				Reason: "category kind " + string(category.Kind) + " does not match movement type " + string(m.Type),
			}
		}
	}

	return nil
}

func scanMovements(rows *sql.Rows) ([]models.MovementWithNames, error) {
	var result []models.MovementWithNames
	for rows.Next() {
		var (
			m                                  models.MovementWithNames
			dateStr, amountStr, createdAt      string
			accID, fromID, toID, catID         sql.NullString
			fixedVar, note                     sql.NullString
			typeStr                            string
		)
		err := rows.Scan(&m.ID, &m.OwnerID, &dateStr, &typeStr, &amountStr,
			&accID, &fromID, &toID, &catID, &fixedVar, &note, &createdAt,
			&m.AccountName, &m.AccountFromName, &m.AccountToName, &m.CategoryName)
		if err != nil {
			return nil, err
		}

		m.Type = models.MovementType(typeStr)
		if m.Date, err = parseDay(dateStr); err != nil {
			return nil, err
		}
		if m.Amount, err = parseAmount(amountStr); err != nil {
			return nil, err
		}
		m.AccountID = accID.String
		m.AccountFromID = fromID.String
		m.AccountToID = toID.String
		m.CategoryID = catID.String
		m.FixedVar = flagFromNull(fixedVar)
		m.Note = note.String
		m.CreatedAt = parseCreatedAt(createdAt)

		result = append(result, m)
	}
	return result, rows.Err()
}
