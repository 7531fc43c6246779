package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/models"
)

// ListTemplates returns recurring templates sorted by name.
func (s *SQLiteStore) ListTemplates(ctx context.Context, onlyActive bool) ([]models.RecurringTemplate, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_id, name, type, amount, day_of_month,
		account_id, category_id, fixed_var, note, active, created_at
		FROM recurring_templates WHERE owner_id = ?`)
	if onlyActive {
		sb.WriteString(" AND active = 1")
	}
	sb.WriteString(" ORDER BY name")

	rows, err := s.db.QueryContext(ctx, sb.String(), s.ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.RecurringTemplate
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// CreateTemplate validates and stores a new recurring template.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, nt ledger.NewTemplate) (models.RecurringTemplate, error) {
	if err := s.validateTemplate(ctx, nt.Name, nt.Type, nt.DayOfMonth, nt.AccountID, nt.CategoryID); err != nil {
		return models.RecurringTemplate{}, err
	}
	if !nt.Amount.IsPositive() {
		return models.RecurringTemplate{}, &finerrors.ValidationError{Reason: "template amount must be positive"}
	}

	t := models.RecurringTemplate{
		ID:         newID(),
		OwnerID:    nt.OwnerID,
		Name:       nt.Name,
		Type:       nt.Type,
		Amount:     nt.Amount,
		DayOfMonth: nt.DayOfMonth,
		AccountID:  nt.AccountID,
		CategoryID: nt.CategoryID,
		FixedVar:   nt.FixedVar,
		Note:       nt.Note,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_templates (id, owner_id, name, type, amount,
			day_of_month, account_id, category_id, fixed_var, note, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		t.ID, t.OwnerID, t.Name, string(t.Type), t.Amount.String(), t.DayOfMonth,
		t.AccountID, nullable(t.CategoryID), nullableFlag(t.FixedVar), nullable(t.Note),
		t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.RecurringTemplate{}, err
	}
	return t, nil
}

// UpdateTemplate replaces the mutable fields of a template.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, t models.RecurringTemplate) (models.RecurringTemplate, error) {
	if err := s.validateTemplate(ctx, t.Name, t.Type, t.DayOfMonth, t.AccountID, t.CategoryID); err != nil {
		return models.RecurringTemplate{}, err
	}
	if !t.Amount.IsPositive() {
		return models.RecurringTemplate{}, &finerrors.ValidationError{Reason: "template amount must be positive"}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_templates SET name = ?, type = ?, amount = ?,
			day_of_month = ?, account_id = ?, category_id = ?, fixed_var = ?,
			note = ?, active = ?
		WHERE id = ? AND owner_id = ?`,
		t.Name, string(t.Type), t.Amount.String(), t.DayOfMonth, t.AccountID,
		nullable(t.CategoryID), nullableFlag(t.FixedVar), nullable(t.Note),
		boolToInt(t.Active), t.ID, s.ownerID)
	if err != nil {
		return models.RecurringTemplate{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.RecurringTemplate{}, &finerrors.NotFoundError{Entity: "template", ID: t.ID}
	}
	return t, nil
}

// DeleteTemplate removes a template.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM recurring_templates WHERE id = ? AND owner_id = ?", id, s.ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &finerrors.NotFoundError{Entity: "template", ID: id}
	}
	return nil
}

func (s *SQLiteStore) validateTemplate(ctx context.Context, name string, mtype models.MovementType, dayOfMonth int, accountID, categoryID string) error {
	if name == "" {
		return &finerrors.ValidationError{Reason: "template name must not be empty"}
	}
	if mtype != models.TypeIncome && mtype != models.TypeExpense {
		return &finerrors.ValidationError{Reason: "template type must be income or expense"}
	}
	if dayOfMonth < 1 || dayOfMonth > 31 {
		return &finerrors.ValidationError{Reason: "template day of month must be between 1 and 31"}
	}
	if accountID == "" {
		return &finerrors.ValidationError{Reason: "template requires an account"}
	}

	ok, err := s.exists(ctx, "accounts", accountID)
	if err != nil {
		return err
	}
	if !ok {
		return &finerrors.ValidationError{Reason: "template references unknown account " + accountID}
	}

	if categoryID != "" {
		category, err := s.GetCategory(ctx, categoryID)
		if err != nil {
			if finerrors.IsNotFound(err) {
				return &finerrors.ValidationError{Reason: "template references unknown category " + categoryID}
			}
			return err
		}
		if string(category.Kind) != string(mtype) {
			return &finerrors.ValidationError{
				Reason: "category kind " + string(category.Kind) + " does not match template type " + string(mtype),
			}
		}
	}

	return nil
}

func scanTemplate(scan func(dest ...interface{}) error) (models.RecurringTemplate, error) {
	var (
		t                            models.RecurringTemplate
		typeStr, amountStr, created  string
		categoryID, fixedVar, note   sql.NullString
		active                       int
	)
	err := scan(&t.ID, &t.OwnerID, &t.Name, &typeStr, &amountStr, &t.DayOfMonth,
		&t.AccountID, &categoryID, &fixedVar, &note, &active, &created)
	if err != nil {
		return models.RecurringTemplate{}, err
	}
	t.Type = models.MovementType(typeStr)
	if t.Amount, err = parseAmount(amountStr); err != nil {
		return models.RecurringTemplate{}, err
	}
	t.CategoryID = categoryID.String
	t.FixedVar = flagFromNull(fixedVar)
	t.Note = note.String
	t.Active = active != 0
	t.CreatedAt = parseCreatedAt(created)
	return t, nil
}
