// Package csvio serializes the movement ledger to its CSV wire format and
// parses uploads back into typed ledger entries. The format is localized:
// Spanish header, DD/MM/YYYY dates, Ingreso/Gasto/Transferencia types.
package csvio

import (
	"context"
	"strings"

	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
)

// Header is the exact column row of the wire format.
const Header = "Fecha,Tipo,Importe,Cuenta,Categoría,Fijo/Variable,Nota"

// Exporter serializes movements to CSV text.
type Exporter struct {
	store  ledger.MovementStore
	logger logging.Logger
}

// NewExporter creates an Exporter backed by the given store.
func NewExporter(store ledger.MovementStore, logger logging.Logger) *Exporter {
	return &Exporter{
		store:  store,
		logger: logger,
	}
}

// Export serializes all movements, most recent first, into CSV text.
// Transfers render their two accounts as "from → to" in the account column
// and leave the category column empty.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	movements, err := e.store.ListMovements(ctx, ledger.MovementFilter{})
	if err != nil {
		return "", err
	}

	rows := make([]string, 0, len(movements)+1)
	rows = append(rows, Header)
	for _, m := range movements {
		rows = append(rows, exportRow(m))
	}

	e.logger.Info("exported movements to CSV", logging.F("count", len(movements)))

	return strings.Join(rows, "\n"), nil
}

func exportRow(m models.MovementWithNames) string {
	var account string
	if m.Type == models.TypeTransfer {
		account = m.AccountFromName + " → " + m.AccountToName
	} else {
		account = m.AccountName
	}

	cols := []string{
		dateutils.ToSpanish(m.Date),
		localizeType(m.Type),
		m.Amount.String(),
		account,
		m.CategoryName,
		localizeFlag(m.FixedVar),
		quoteField(m.Note),
	}
	return strings.Join(cols, ",")
}

func localizeType(t models.MovementType) string {
	switch t {
	case models.TypeIncome:
		return "Ingreso"
	case models.TypeExpense:
		return "Gasto"
	default:
		return "Transferencia"
	}
}

func localizeFlag(f *models.FixedFlag) string {
	if f == nil {
		return ""
	}
	if *f == models.FlagFixed {
		return "Fijo"
	}
	return "Variable"
}
