// Package balance reconstructs account balances from movement history.
package balance

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/balance"
	"finanzas/internal/dateutils"
)

var asOf string

// Cmd represents the balance command.
var Cmd = &cobra.Command{
	Use:   "balance [account-id]",
	Short: "Reconstruct account balances",
	Long: `Reconstruct the balance of one account, or all accounts, by replaying
movements on top of each account's opening balance. With --date the
reconstruction stops at the end of that day.`,
	Args: cobra.MaximumNArgs(1),
	RunE: balanceFunc,
}

func init() {
	Cmd.Flags().StringVar(&asOf, "date", "", "Reconstruct as of this date (YYYY-MM-DD)")
}

func balanceFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var cutoff *time.Time
	if asOf != "" {
		t, err := dateutils.ParseISO(asOf)
		if err != nil {
			return err
		}
		cutoff = &t
	}

	r := balance.NewReconstructor(root.Store, root.Log)

	if len(args) == 1 {
		b, err := r.BalanceOf(ctx, args[0], cutoff)
		if err != nil {
			return err
		}
		fmt.Println(b.String())
		return nil
	}

	accounts, err := root.Store.ListAccounts(ctx, false)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		b, err := r.BalanceOf(ctx, a.ID, cutoff)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", a.Name, b.String())
	}
	return nil
}
