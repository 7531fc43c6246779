// Package networth reports snapshot-based net worth figures.
package networth

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/dateutils"
	"finanzas/internal/networth"
)

var (
	asOf     string
	startStr string
	endStr   string
)

// Cmd represents the networth command.
var Cmd = &cobra.Command{
	Use:   "networth",
	Short: "Show total net worth from recorded snapshots",
	Long: `Sum the latest recorded snapshot of each account at or before a reference
date. Accounts without a snapshot contribute nothing; net worth reflects
what was actually recorded, not reconstructed balances.`,
	RunE: totalFunc,
}

// SeriesCmd represents the networth series subcommand.
var SeriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show net worth per snapshot date in a range",
	RunE:  seriesFunc,
}

func init() {
	Cmd.Flags().StringVar(&asOf, "date", "", "Reference date (YYYY-MM-DD), default today")

	SeriesCmd.Flags().StringVar(&startStr, "start", "", "Range start (YYYY-MM-DD)")
	SeriesCmd.Flags().StringVar(&endStr, "end", "", "Range end (YYYY-MM-DD)")
	_ = SeriesCmd.MarkFlagRequired("start")
	_ = SeriesCmd.MarkFlagRequired("end")

	Cmd.AddCommand(SeriesCmd)
}

func totalFunc(cmd *cobra.Command, args []string) error {
	cutoff := time.Now()
	if asOf != "" {
		t, err := dateutils.ParseISO(asOf)
		if err != nil {
			return err
		}
		cutoff = t
	}

	r := networth.NewReconciler(root.Store, root.Log)
	total, err := r.TotalNetWorth(cmd.Context(), cutoff)
	if err != nil {
		return err
	}
	fmt.Println(total.String())
	return nil
}

func seriesFunc(cmd *cobra.Command, args []string) error {
	start, err := dateutils.ParseISO(startStr)
	if err != nil {
		return err
	}
	end, err := dateutils.ParseISO(endStr)
	if err != nil {
		return err
	}

	r := networth.NewReconciler(root.Store, root.Log)
	series, err := r.NetWorthSeries(cmd.Context(), start, end)
	if err != nil {
		return err
	}

	for _, p := range series {
		fmt.Printf("%s\t%s\n", dateutils.ToISO(p.Date), p.Total.String())
	}
	return nil
}
