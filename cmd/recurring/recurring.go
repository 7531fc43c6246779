// Package recurring lists and applies monthly movement templates.
package recurring

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/recurring"
)

var (
	year  int
	month int
)

// Cmd represents the recurring command.
var Cmd = &cobra.Command{
	Use:   "recurring",
	Short: "List recurring movement templates",
	RunE:  listFunc,
}

// ApplyCmd represents the recurring apply subcommand.
var ApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Stamp active templates onto a month",
	Long: `Create one movement per active template for the given month. Template
days beyond the month's length land on its last day. Reapplying a month
skips templates that already produced their movement.`,
	RunE: applyFunc,
}

func init() {
	now := time.Now()
	ApplyCmd.Flags().IntVar(&year, "year", now.Year(), "Target year")
	ApplyCmd.Flags().IntVar(&month, "month", int(now.Month()), "Target month (1-12)")

	Cmd.AddCommand(ApplyCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	templates, err := root.Store.ListTemplates(cmd.Context(), false)
	if err != nil {
		return err
	}
	for _, t := range templates {
		state := "activa"
		if !t.Active {
			state = "inactiva"
		}
		fmt.Printf("%s\t%s\t%s\tdía %d\t%s\n", t.Name, t.Type, t.Amount.String(), t.DayOfMonth, state)
	}
	return nil
}

func applyFunc(cmd *cobra.Command, args []string) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}

	a := recurring.NewApplier(root.Store, root.Log)
	result, err := a.ApplyMonth(cmd.Context(), root.Cfg.Owner.ID, year, time.Month(month))
	if err != nil {
		return err
	}

	fmt.Printf("%d movimientos creados, %d omitidos\n", result.Created, result.Skipped)
	for _, msg := range result.Errors {
		fmt.Println(msg)
	}
	return nil
}
