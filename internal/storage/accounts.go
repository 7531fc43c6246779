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

// ListAccounts returns accounts sorted by name, omitting inactive ones
// unless includeInactive is set.
func (s *SQLiteStore) ListAccounts(ctx context.Context, includeInactive bool) ([]models.Account, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, owner_id, name, type, opening_balance, is_active, created_at
		FROM accounts WHERE owner_id = ?`)
	if !includeInactive {
		sb.WriteString(" AND is_active = 1")
	}
	sb.WriteString(" ORDER BY name")

	rows, err := s.db.QueryContext(ctx, sb.String(), s.ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetAccount returns one account or *finerrors.NotFoundError.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, type, opening_balance, is_active, created_at
		FROM accounts WHERE id = ? AND owner_id = ?`, id, s.ownerID)

	a, err := scanAccount(row.Scan)
	if err == sql.ErrNoRows {
		return models.Account{}, &finerrors.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return models.Account{}, err
	}
	return a, nil
}

// CreateAccount stores a new active account.
func (s *SQLiteStore) CreateAccount(ctx context.Context, na ledger.NewAccount) (models.Account, error) {
	if na.Name == "" {
		return models.Account{}, &finerrors.ValidationError{Reason: "account name must not be empty"}
	}
	if !models.ValidAccountType(na.Type) {
		return models.Account{}, &finerrors.ValidationError{Reason: "unknown account type " + string(na.Type)}
	}

	a := models.Account{
		ID:             newID(),
		OwnerID:        na.OwnerID,
		Name:           na.Name,
		Type:           na.Type,
		OpeningBalance: na.OpeningBalance,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_id, name, type, opening_balance, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		a.ID, a.OwnerID, a.Name, string(a.Type), a.OpeningBalance.String(),
		a.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Account{}, err
	}
	return a, nil
}

// UpdateAccount replaces the mutable fields of an account. Changing the
// opening balance retroactively shifts every derived balance.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	if !models.ValidAccountType(a.Type) {
		return models.Account{}, &finerrors.ValidationError{Reason: "unknown account type " + string(a.Type)}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, opening_balance = ?, is_active = ?
		WHERE id = ? AND owner_id = ?`,
		a.Name, string(a.Type), a.OpeningBalance.String(), boolToInt(a.IsActive),
		a.ID, s.ownerID)
	if err != nil {
		return models.Account{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Account{}, &finerrors.NotFoundError{Entity: "account", ID: a.ID}
	}
	return s.GetAccount(ctx, a.ID)
}

// DeleteAccount removes an account row entirely. Soft deletion goes through
// UpdateAccount with IsActive false.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM accounts WHERE id = ? AND owner_id = ?", id, s.ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &finerrors.NotFoundError{Entity: "account", ID: id}
	}
	return nil
}

func scanAccount(scan func(dest ...interface{}) error) (models.Account, error) {
	var (
		a                             models.Account
		typeStr, balanceStr, created  string
		isActive                      int
	)
	err := scan(&a.ID, &a.OwnerID, &a.Name, &typeStr, &balanceStr, &isActive, &created)
	if err != nil {
		return models.Account{}, err
	}
	a.Type = models.AccountType(typeStr)
	if a.OpeningBalance, err = parseAmount(balanceStr); err != nil {
		return models.Account{}, err
	}
	a.IsActive = isActive != 0
	a.CreatedAt = parseCreatedAt(created)
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
