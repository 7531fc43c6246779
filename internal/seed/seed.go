// Package seed bootstraps a fresh ledger from a YAML file of accounts and
// categories. Loading is idempotent: entries whose name already exists are
// skipped, so rerunning a seed never duplicates data.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// File is the YAML document shape.
type File struct {
	Accounts   []AccountSeed  `yaml:"accounts"`
	Categories []CategorySeed `yaml:"categories"`
}

// AccountSeed is one account entry. OpeningBalance is a decimal string;
// empty means zero.
type AccountSeed struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	OpeningBalance string `yaml:"opening_balance"`
}

// CategorySeed is one category entry.
type CategorySeed struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Fixed bool   `yaml:"fixed"`
}

// Store is the slice of the ledger the seeder needs.
type Store interface {
	ListAccounts(ctx context.Context, includeInactive bool) ([]models.Account, error)
	CreateAccount(ctx context.Context, a ledger.NewAccount) (models.Account, error)
	ListCategories(ctx context.Context, kind *models.CategoryKind) ([]models.Category, error)
	CreateCategory(ctx context.Context, c ledger.NewCategory) (models.Category, error)
}

// Result counts what the seeder actually created versus skipped.
type Result struct {
	AccountsCreated   int
	CategoriesCreated int
	Skipped           int
}

// Seeder loads seed files into the ledger.
type Seeder struct {
	store  Store
	logger logging.Logger
}

// NewSeeder creates a Seeder backed by the given store.
func NewSeeder(store Store, logger logging.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
	}
}

// ParseFile reads and decodes a seed YAML file.
func ParseFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

// Load applies a seed file to the ledger. Existing names are matched
// case-insensitively and skipped.
func (s *Seeder) Load(ctx context.Context, ownerID string, f File) (Result, error) {
	existingAccounts, err := s.store.ListAccounts(ctx, true)
	if err != nil {
		return Result{}, err
	}
	accountNames := make(map[string]bool, len(existingAccounts))
	for _, a := range existingAccounts {
		accountNames[strings.ToLower(a.Name)] = true
	}

	existingCategories, err := s.store.ListCategories(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	categoryNames := make(map[string]bool, len(existingCategories))
	for _, c := range existingCategories {
		categoryNames[strings.ToLower(c.Name)] = true
	}

	var result Result
	for _, as := range f.Accounts {
		if accountNames[strings.ToLower(as.Name)] {
			result.Skipped++
			continue
		}

		opening := decimal.Zero
		if as.OpeningBalance != "" {
			opening, err = decimal.NewFromString(as.OpeningBalance)
			if err != nil {
				return result, fmt.Errorf("account %q: invalid opening balance %q", as.Name, as.OpeningBalance)
			}
		}

		_, err := s.store.CreateAccount(ctx, ledger.NewAccount{
			OwnerID:        ownerID,
			Name:           as.Name,
			Type:           models.AccountType(as.Type),
			OpeningBalance: opening,
		})
		if err != nil {
			return result, fmt.Errorf("create account %q: %w", as.Name, err)
		}
		accountNames[strings.ToLower(as.Name)] = true
		result.AccountsCreated++
	}

	for _, cs := range f.Categories {
		if categoryNames[strings.ToLower(cs.Name)] {
			result.Skipped++
			continue
		}

		_, err := s.store.CreateCategory(ctx, ledger.NewCategory{
			OwnerID: ownerID,
			Name:    cs.Name,
			Kind:    models.CategoryKind(cs.Kind),
			IsFixed: cs.Fixed,
		})
		if err != nil {
			return result, fmt.Errorf("create category %q: %w", cs.Name, err)
		}
		categoryNames[strings.ToLower(cs.Name)] = true
		result.CategoriesCreated++
	}

	s.logger.Info("seeded ledger",
		logging.F("accounts", result.AccountsCreated),
		logging.F("categories", result.CategoriesCreated),
		logging.F("skipped", result.Skipped))

	return result, nil
}
