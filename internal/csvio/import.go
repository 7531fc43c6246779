package csvio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// ParsedRow is one movement parsed from an uploaded CSV, before name
// resolution. Line is the 1-based line number in the original file, so
// error messages keep pointing at the right line even when transfer rows or
// blank lines were skipped above it.
type ParsedRow struct {
	Line     int
	Date     time.Time
	Type     models.MovementType
	Amount   decimal.Decimal
	Account  string
	Category string
	FixedVar *models.FixedFlag
	Note     string
}

// Result is the outcome of a best-effort import. Partial success is the
// expected common case, not an exceptional one.
type Result struct {
	Success int
	Errors  []string
}

// Store is the slice of the ledger the importer needs.
type Store interface {
	ListAccounts(ctx context.Context, includeInactive bool) ([]models.Account, error)
	ListCategories(ctx context.Context, kind *models.CategoryKind) ([]models.Category, error)
	CreateMovement(ctx context.Context, m ledger.NewMovement) (models.Movement, error)
}

// Importer parses and imports uploaded CSV files. The two phases have
// different failure semantics: any parse failure aborts the whole import
// before a single write, while resolution and write failures only skip the
// row that raised them.
type Importer struct {
	store  Store
	logger logging.Logger
}

// NewImporter creates an Importer backed by the given store.
func NewImporter(store Store, logger logging.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger,
	}
}

// Parse splits the CSV content into typed rows. The first line is the
// header and is skipped, blank lines are ignored, and rows whose type
// mentions a transfer are silently dropped because transfers are never
// imported. Any malformed line fails the whole parse with a
// *finerrors.FormatError carrying its line number.
func (im *Importer) Parse(content string) ([]ParsedRow, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("el archivo CSV está vacío o no tiene datos")
	}

	var rows []ParsedRow
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lineNum := i + 1

		fields := splitLine(line)
		if len(fields) < 6 {
			return nil, &finerrors.FormatError{Line: lineNum, Reason: "formato inválido (faltan columnas)"}
		}

		typeStr := strings.ToLower(fields[1])
		if strings.Contains(typeStr, "transfer") {
			continue
		}

		movementType := models.TypeExpense
		if strings.Contains(typeStr, "ingreso") {
			movementType = models.TypeIncome
		}

		date, err := dateutils.ParseImportDate(fields[0])
		if err != nil {
			return nil, &finerrors.FormatError{Line: lineNum, Reason: "formato de fecha inválido. Usa DD/MM/AAAA"}
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(fields[2], ",", "."))
		if err != nil || !amount.IsPositive() {
			return nil, &finerrors.FormatError{Line: lineNum, Reason: "importe inválido"}
		}

		var fixedVar *models.FixedFlag
		flagStr := strings.ToLower(fields[5])
		switch {
		case strings.Contains(flagStr, "fijo"):
			fixedVar = models.FlagPtr(models.FlagFixed)
		case strings.Contains(flagStr, "variable"):
			fixedVar = models.FlagPtr(models.FlagVariable)
		}

		var note string
		if len(fields) > 6 {
			note = fields[6]
		}

		rows = append(rows, ParsedRow{
			Line:     lineNum,
			Date:     date,
			Type:     movementType,
			Amount:   amount,
			Account:  fields[3],
			Category: fields[4],
			FixedVar: fixedVar,
			Note:     note,
		})
	}

	return rows, nil
}

// Import runs the full two-phase import: parse everything, then resolve and
// write each row independently. The per-row phase records resolution and
// write failures as line-numbered messages without aborting the batch.
func (im *Importer) Import(ctx context.Context, ownerID, content string) (Result, error) {
	rows, err := im.Parse(content)
	if err != nil {
		return Result{}, err
	}

	// Accounts and categories do not depend on each other; fetch them
	// concurrently before the per-row pass.
	var accounts []models.Account
	var categories []models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = im.store.ListAccounts(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = im.store.ListCategories(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	accountIDs := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountIDs[strings.ToLower(a.Name)] = a.ID
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryIDs[strings.ToLower(c.Name)] = c.ID
	}

	var result Result
	for _, row := range rows {
		accountID, ok := accountIDs[strings.ToLower(row.Account)]
		if !ok {
			resErr := &finerrors.ResolutionError{Line: row.Line, Field: "cuenta", Value: row.Account}
			result.Errors = append(result.Errors, resErr.Error())
			continue
		}

		categoryID, ok := categoryIDs[strings.ToLower(row.Category)]
		if !ok {
			resErr := &finerrors.ResolutionError{Line: row.Line, Field: "categoría", Value: row.Category}
			result.Errors = append(result.Errors, resErr.Error())
			continue
		}

		_, err := im.store.CreateMovement(ctx, ledger.NewMovement{
			OwnerID:    ownerID,
			Date:       row.Date,
			Type:       row.Type,
			Amount:     row.Amount,
			AccountID:  accountID,
			CategoryID: categoryID,
			FixedVar:   row.FixedVar,
			Note:       row.Note,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Línea %d: %v", row.Line, err))
			continue
		}

		result.Success++
	}

	im.logger.Info("imported movements from CSV",
		logging.F("success", result.Success),
		logging.F("errors", len(result.Errors)))

	return result, nil
}
