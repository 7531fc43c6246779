package csvio

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finanzas/internal/csvutil"
	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// SnapshotRow is the file representation of one balance snapshot. Unlike the
// movement wire format this one is plain tabular data, so gocsv struct tags
// carry the column mapping.
type SnapshotRow struct {
	Account string `csv:"Cuenta"`
	Date    string `csv:"Fecha"`
	Balance string `csv:"Saldo"`
}

// SnapshotStore is the slice of the ledger the snapshot dump needs.
type SnapshotStore interface {
	ListAccounts(ctx context.Context, includeInactive bool) ([]models.Account, error)
	ListSnapshots(ctx context.Context, filter ledger.SnapshotFilter) ([]models.Snapshot, error)
	CreateSnapshot(ctx context.Context, s ledger.NewSnapshot) (models.Snapshot, error)
}

// SnapshotDumper exports balance snapshots to CSV files and loads them back.
type SnapshotDumper struct {
	store  SnapshotStore
	logger logging.Logger
}

// NewSnapshotDumper creates a SnapshotDumper backed by the given store.
func NewSnapshotDumper(store SnapshotStore, logger logging.Logger) *SnapshotDumper {
	return &SnapshotDumper{
		store:  store,
		logger: logger,
	}
}

// Dump writes all snapshots to a CSV file, account names resolved and dates
// in DD/MM/YYYY.
func (d *SnapshotDumper) Dump(ctx context.Context, filePath string) error {
	accounts, err := d.store.ListAccounts(ctx, true)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	snapshots, err := d.store.ListSnapshots(ctx, ledger.SnapshotFilter{})
	if err != nil {
		return err
	}

	rows := make([]SnapshotRow, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, SnapshotRow{
			Account: names[s.AccountID],
			Date:    dateutils.ToSpanish(s.Date),
			Balance: s.Balance.String(),
		})
	}

	if err := csvutil.WriteFile(rows, filePath); err != nil {
		return err
	}

	d.logger.Info("dumped snapshots to CSV",
		logging.F("file", filePath),
		logging.F("count", len(rows)))
	return nil
}

// Load reads snapshots from a CSV file and creates them. Rows that fail to
// parse, resolve, or write are recorded and skipped; the rest proceed.
func (d *SnapshotDumper) Load(ctx context.Context, ownerID, filePath string) (Result, error) {
	rows, err := csvutil.ReadFile[SnapshotRow](filePath)
	if err != nil {
		return Result{}, err
	}

	accounts, err := d.store.ListAccounts(ctx, true)
	if err != nil {
		return Result{}, err
	}
	accountIDs := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountIDs[strings.ToLower(a.Name)] = a.ID
	}

	var result Result
	for i, row := range rows {
		lineNum := i + 2

		accountID, ok := accountIDs[strings.ToLower(row.Account)]
		if !ok {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Línea %d: cuenta \"%s\" no encontrada", lineNum, row.Account))
			continue
		}

		date, err := dateutils.ParseImportDate(row.Date)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Línea %d: formato de fecha inválido. Usa DD/MM/AAAA", lineNum))
			continue
		}

		balance, err := decimal.NewFromString(strings.ReplaceAll(row.Balance, ",", "."))
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Línea %d: saldo inválido", lineNum))
			continue
		}

		_, err = d.store.CreateSnapshot(ctx, ledger.NewSnapshot{
			OwnerID:   ownerID,
			AccountID: accountID,
			Date:      date,
			Balance:   balance,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Línea %d: %v", lineNum, err))
			continue
		}

		result.Success++
	}

	d.logger.Info("loaded snapshots from CSV",
		logging.F("success", result.Success),
		logging.F("errors", len(result.Errors)))

	return result, nil
}
