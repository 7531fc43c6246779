// Package storage implements the ledger store on SQLite. Amounts are stored
// as decimal strings and dates as ISO calendar days, so reconstruction math
// never passes through binary floating point.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements ledger.Store on a local SQLite database. The store
// is bound to one owner at construction; every query is scoped to that
// owner, and write parameters carry the owner explicitly.
type SQLiteStore struct {
	db      *sql.DB
	ownerID string
	logger  logging.Logger
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath, runs
// pending migrations, and returns a store scoped to ownerID.
func NewSQLiteStore(dbPath, ownerID string, logger logging.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("opened ledger database",
		logging.F("path", dbPath),
		logging.F("owner", ownerID))

	return &SQLiteStore{
		db:      db,
		ownerID: ownerID,
		logger:  logger,
	}, nil
}

var _ ledger.Store = (*SQLiteStore)(nil)

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableFlag(f *models.FixedFlag) sql.NullString {
	if f == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*f), Valid: true}
}

func flagFromNull(ns sql.NullString) *models.FixedFlag {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	f := models.FixedFlag(ns.String)
	return &f
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt amount %q in store: %w", s, err)
	}
	return d, nil
}

func parseDay(s string) (time.Time, error) {
	return dateutils.ParseISO(s)
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// exists reports whether a row with the given id exists in table for this
// owner. Table names are compile-time constants at every call site.
func (s *SQLiteStore) exists(ctx context.Context, table, id string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? AND owner_id = ?", table)
	var one int
	err := s.db.QueryRowContext(ctx, query, id, s.ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
