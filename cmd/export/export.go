// Package export serializes the movement ledger to its CSV wire format.
package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/csvio"
)

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export all movements to CSV",
	Long: `Serialize every movement to the CSV wire format: Spanish header,
DD/MM/YYYY dates, transfers rendered as "origen → destino". Writes to
--output when given, stdout otherwise.`,
	RunE: exportFunc,
}

func exportFunc(cmd *cobra.Command, args []string) error {
	e := csvio.NewExporter(root.Store, root.Log)
	content, err := e.Export(cmd.Context())
	if err != nil {
		return err
	}

	if root.SharedFlags.Output == "" {
		fmt.Println(content)
		return nil
	}
	return os.WriteFile(root.SharedFlags.Output, []byte(content+"\n"), 0600)
}
