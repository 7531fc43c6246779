package csvio

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/dateutils"
	"finanzas/internal/finerrors"
	"finanzas/internal/ledger"
	"finanzas/internal/logging"
	"finanzas/internal/models"
	"finanzas/internal/storage/memory"
)

const testOwner = "owner-1"

// fixture seeds a memory store with one bank account and one category per
// kind, returning the store and the created ids.
func fixture(t *testing.T) (*memory.Store, models.Account, models.Category, models.Category) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(testOwner)

	account, err := store.CreateAccount(ctx, ledger.NewAccount{
		OwnerID: testOwner, Name: "Banco", Type: models.AccountBank,
		OpeningBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	groceries, err := store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Comida", Kind: models.KindExpense,
	})
	require.NoError(t, err)

	salary, err := store.CreateCategory(ctx, ledger.NewCategory{
		OwnerID: testOwner, Name: "Nómina", Kind: models.KindIncome,
	})
	require.NoError(t, err)

	return store, account, groceries, salary
}

func TestParseValidRows(t *testing.T) {
	im := NewImporter(memory.NewStore(testOwner), logging.NewMockLogger())

	content := Header + "\n" +
		"15/01/2024,Gasto,12.50,Banco,Comida,Variable,\n" +
		"31/01/2024,Ingreso,\"1800,00\",Banco,Nómina,Fijo,\"Nómina de enero\"\n"

	rows, err := im.Parse(content)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, models.TypeExpense, rows[0].Type)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "Banco", rows[0].Account)
	assert.Equal(t, "Comida", rows[0].Category)
	require.NotNil(t, rows[0].FixedVar)
	assert.Equal(t, models.FlagVariable, *rows[0].FixedVar)
	assert.Empty(t, rows[0].Note)

	assert.Equal(t, 3, rows[1].Line)
	assert.Equal(t, models.TypeIncome, rows[1].Type)
	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("1800.00")))
	assert.Equal(t, "Nómina de enero", rows[1].Note)
	assert.True(t, rows[1].Date.Equal(dateutils.Date(2024, time.January, 31)))
}

func TestParseSkipsTransfersAndBlankLines(t *testing.T) {
	im := NewImporter(memory.NewStore(testOwner), logging.NewMockLogger())

	content := Header + "\n" +
		"15/01/2024,Gasto,10,Banco,Comida,,\n" +
		"\n" +
		"16/01/2024,Transferencia,500,Banco → Ahorro,,,\n" +
		"17/01/2024,Gasto,20,Banco,Comida,,\n"

	rows, err := im.Parse(content)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Line numbers point at the original file, not the surviving rows.
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, 5, rows[1].Line)
}

func TestParseTransferRowSkippedBeforeFieldChecks(t *testing.T) {
	im := NewImporter(memory.NewStore(testOwner), logging.NewMockLogger())

	// Malformed date and amount, but the row is a transfer: it must be
	// dropped without tripping the format checks.
	content := Header + "\n" +
		"bad-date,Transferencia,not-a-number,Banco → Ahorro,,,\n"

	rows, err := im.Parse(content)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseQuotedNoteWithCommaAndEscapedQuotes(t *testing.T) {
	im := NewImporter(memory.NewStore(testOwner), logging.NewMockLogger())

	content := Header + "\n" +
		`15/01/2024,Gasto,10,Banco,Comida,,"cena, con ""amigos"""` + "\n"

	rows, err := im.Parse(content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, `cena, con "amigos"`, rows[0].Note)
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantLine int
	}{
		{
			name:     "missing columns",
			content:  Header + "\n15/01/2024,Gasto,10\n",
			wantLine: 2,
		},
		{
			name:     "invalid date format",
			content:  Header + "\n2024-01-15,Gasto,10,Banco,Comida,,\n",
			wantLine: 2,
		},
		{
			name:     "nonexistent calendar date",
			content:  Header + "\n31/02/2024,Gasto,10,Banco,Comida,,\n",
			wantLine: 2,
		},
		{
			name:     "invalid amount",
			content:  Header + "\n15/01/2024,Gasto,abc,Banco,Comida,,\n",
			wantLine: 2,
		},
		{
			name:     "negative amount",
			content:  Header + "\n15/01/2024,Gasto,-5,Banco,Comida,,\n",
			wantLine: 2,
		},
		{
			name: "error on later line",
			content: Header + "\n" +
				"15/01/2024,Gasto,10,Banco,Comida,,\n" +
				"99/99/2024,Gasto,10,Banco,Comida,,\n",
			wantLine: 3,
		},
	}

	im := NewImporter(memory.NewStore(testOwner), logging.NewMockLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.Parse(tt.content)
			require.Error(t, err)

			var formatErr *finerrors.FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.wantLine, formatErr.Line)
		})
	}
}

func TestParseEmptyContent(t *testing.T) {
	im := NewImporter(memory.NewStore(testOwner), logging.NewMockLogger())

	for _, content := range []string{"", Header, Header + "\n"} {
		_, err := im.Parse(content)
		assert.Error(t, err)
		assert.False(t, finerrors.IsFormat(err), "empty file is not a line-level format error")
	}
}

func TestImportPartialSuccess(t *testing.T) {
	ctx := context.Background()
	store, _, _, _ := fixture(t)
	im := NewImporter(store, logging.NewMockLogger())

	content := Header + "\n" +
		"15/01/2024,Gasto,10,Banco,Comida,Variable,\n" +
		"16/01/2024,Ingreso,1800,Banco,Nómina,Fijo,\n" +
		"17/01/2024,Gasto,25,Desconocida,Comida,,\n" +
		"18/01/2024,Gasto,30,Banco,Inexistente,,\n" +
		"19/01/2024,Gasto,40,Banco,Comida,,\n"

	result, err := im.Import(ctx, testOwner, content)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Success)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, `Línea 4: cuenta "Desconocida" no encontrada`, result.Errors[0])
	assert.Equal(t, `Línea 5: categoría "Inexistente" no encontrada`, result.Errors[1])

	movements, err := store.ListMovements(ctx, ledger.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movements, 3)
}

func TestImportParseFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	store, _, _, _ := fixture(t)
	im := NewImporter(store, logging.NewMockLogger())

	content := Header + "\n" +
		"15/01/2024,Gasto,10,Banco,Comida,,\n" +
		"31/02/2024,Gasto,10,Banco,Comida,,\n"

	_, err := im.Import(ctx, testOwner, content)
	require.Error(t, err)
	assert.True(t, finerrors.IsFormat(err))

	movements, err := store.ListMovements(ctx, ledger.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements, "a parse failure must abort before any write")
}

func TestImportResolvesNamesCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	store, _, _, _ := fixture(t)
	im := NewImporter(store, logging.NewMockLogger())

	content := Header + "\n" +
		"15/01/2024,Gasto,10,BANCO,comida,,\n"

	result, err := im.Import(ctx, testOwner, content)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Empty(t, result.Errors)
}
