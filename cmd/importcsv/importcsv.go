// Package importcsv loads movements from an uploaded CSV file.
package importcsv

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/csvio"
)

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import movements from a CSV file",
	Long: `Parse a CSV file in the export wire format and create its movements.
Parsing is all-or-nothing: one malformed line aborts the import before
anything is written. Name resolution and writes are per-row: a row whose
account or category does not exist is reported and skipped while the
rest proceed. Transfer rows are never imported.`,
	RunE: importFunc,
}

func importFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	content, err := os.ReadFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	im := csvio.NewImporter(root.Store, root.Log)
	result, err := im.Import(cmd.Context(), root.Cfg.Owner.ID, string(content))
	if err != nil {
		return err
	}

	fmt.Printf("%d movimientos importados\n", result.Success)
	for _, msg := range result.Errors {
		fmt.Println(msg)
	}
	return nil
}
