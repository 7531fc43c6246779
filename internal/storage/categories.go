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

// ListCategories returns active categories sorted by name, optionally
// restricted to one kind.
func (s *SQLiteStore) ListCategories(ctx context.Context, kind *models.CategoryKind) ([]models.Category, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_id, name, kind, is_fixed, is_active, created_at
		FROM categories WHERE owner_id = ? AND is_active = 1`)
	args := []interface{}{s.ownerID}
	if kind != nil {
		sb.WriteString(" AND kind = ?")
		args = append(args, string(*kind))
	}
	sb.WriteString(" ORDER BY name")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns one category or *finerrors.NotFoundError.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (models.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, kind, is_fixed, is_active, created_at
		FROM categories WHERE id = ? AND owner_id = ?`, id, s.ownerID)

	c, err := scanCategory(row.Scan)
	if err == sql.ErrNoRows {
		return models.Category{}, &finerrors.NotFoundError{Entity: "category", ID: id}
	}
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// CreateCategory stores a new active category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, nc ledger.NewCategory) (models.Category, error) {
	if nc.Name == "" {
		return models.Category{}, &finerrors.ValidationError{Reason: "category name must not be empty"}
	}
	if nc.Kind != models.KindIncome && nc.Kind != models.KindExpense {
		return models.Category{}, &finerrors.ValidationError{Reason: "unknown category kind " + string(nc.Kind)}
	}

	c := models.Category{
		ID:        newID(),
		OwnerID:   nc.OwnerID,
		Name:      nc.Name,
		Kind:      nc.Kind,
		IsFixed:   nc.IsFixed,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, owner_id, name, kind, is_fixed, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		c.ID, c.OwnerID, c.Name, string(c.Kind), boolToInt(c.IsFixed),
		c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// UpdateCategory replaces the mutable fields of a category.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, kind = ?, is_fixed = ?, is_active = ?
		WHERE id = ? AND owner_id = ?`,
		c.Name, string(c.Kind), boolToInt(c.IsFixed), boolToInt(c.IsActive),
		c.ID, s.ownerID)
	if err != nil {
		return models.Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Category{}, &finerrors.NotFoundError{Entity: "category", ID: c.ID}
	}
	return s.GetCategory(ctx, c.ID)
}

// DeleteCategory removes a category row entirely.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND owner_id = ?", id, s.ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &finerrors.NotFoundError{Entity: "category", ID: id}
	}
	return nil
}

func scanCategory(scan func(dest ...interface{}) error) (models.Category, error) {
	var (
		c                 models.Category
		kindStr, created  string
		isFixed, isActive int
	)
	err := scan(&c.ID, &c.OwnerID, &c.Name, &kindStr, &isFixed, &isActive, &created)
	if err != nil {
		return models.Category{}, err
	}
	c.Kind = models.CategoryKind(kindStr)
	c.IsFixed = isFixed != 0
	c.IsActive = isActive != 0
	c.CreatedAt = parseCreatedAt(created)
	return c, nil
}
