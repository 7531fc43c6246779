// Package summary aggregates movements into monthly totals and category
// breakdowns.
package summary

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/aggregate"
	"finanzas/internal/dateutils"
	"finanzas/internal/models"
)

var (
	year     int
	startStr string
	endStr   string
	flagStr  string
)

// Cmd represents the summary command.
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show monthly totals for a year",
	Long: `Sum income and expenses per calendar month of a year. Transfers move
money between accounts and never count as income or expense.`,
	RunE: summaryFunc,
}

// BreakdownCmd represents the summary breakdown subcommand.
var BreakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show expense totals by category for a date range",
	RunE:  breakdownFunc,
}

func init() {
	Cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year to summarize")

	BreakdownCmd.Flags().StringVar(&startStr, "start", "", "Range start (YYYY-MM-DD)")
	BreakdownCmd.Flags().StringVar(&endStr, "end", "", "Range end (YYYY-MM-DD)")
	BreakdownCmd.Flags().StringVar(&flagStr, "flag", "", "Restrict to 'fixed' or 'variable' expenses")

	Cmd.AddCommand(BreakdownCmd)
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	agg := aggregate.NewAggregator(root.Store, root.Log)
	totals, err := agg.MonthlyTotals(cmd.Context(), year)
	if err != nil {
		return err
	}

	for i := 0; i < 12; i++ {
		t := totals[i]
		fmt.Printf("%s %d\tingresos %s\tgastos %s\n",
			time.Month(i+1).String(), year, t.Income.String(), t.Expense.String())
	}
	return nil
}

func breakdownFunc(cmd *cobra.Command, args []string) error {
	start, end, err := parseRange()
	if err != nil {
		return err
	}

	var fixedVar *models.FixedFlag
	switch flagStr {
	case "":
	case "fixed":
		fixedVar = models.FlagPtr(models.FlagFixed)
	case "variable":
		fixedVar = models.FlagPtr(models.FlagVariable)
	default:
		return fmt.Errorf("unknown flag %q (must be 'fixed' or 'variable')", flagStr)
	}

	agg := aggregate.NewAggregator(root.Store, root.Log)
	breakdown, err := agg.CategoryBreakdown(cmd.Context(), start, end, fixedVar)
	if err != nil {
		return err
	}

	total := decimalSum(breakdown)
	for _, ct := range breakdown {
		share := aggregate.Share(ct.Total, total)
		fmt.Printf("%s\t%s\t%s%%\n", ct.CategoryName, ct.Total.String(), share.StringFixed(1))
	}
	return nil
}

func parseRange() (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		// Default to the current month.
		now := time.Now()
		start, end := dateutils.MonthRange(now.Year(), now.Month())
		return start, end, nil
	}
	start, err := dateutils.ParseISO(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := dateutils.ParseISO(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func decimalSum(breakdown []aggregate.CategoryTotal) (total decimal.Decimal) {
	for _, ct := range breakdown {
		total = total.Add(ct.Total)
	}
	return total
}
