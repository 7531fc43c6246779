// Package seed bootstraps the ledger from a YAML file.
package seed

import (
	"fmt"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/seed"
)

var file string

// Cmd represents the seed command.
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Load accounts and categories from a seed file",
	Long: `Create the accounts and categories listed in a YAML seed file. Entries
whose name already exists are skipped, so seeding is safe to rerun.`,
	RunE: seedFunc,
}

func init() {
	Cmd.Flags().StringVar(&file, "file", "", "Seed file path (default from configuration)")
}

func seedFunc(cmd *cobra.Command, args []string) error {
	path := file
	if path == "" {
		path = root.Cfg.Seed.File
	}

	f, err := seed.ParseFile(path)
	if err != nil {
		return err
	}

	s := seed.NewSeeder(root.Store, root.Log)
	result, err := s.Load(cmd.Context(), root.Cfg.Owner.ID, f)
	if err != nil {
		return err
	}

	fmt.Printf("%d cuentas y %d categorías creadas, %d omitidas\n",
		result.AccountsCreated, result.CategoriesCreated, result.Skipped)
	return nil
}
