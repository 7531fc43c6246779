// Package snapshot manages manual balance snapshots, including CSV dumps.
package snapshot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/csvio"
	"finanzas/internal/dateutils"
	"finanzas/internal/ledger"
	"finanzas/internal/networth"
)

var (
	accountID  string
	dateStr    string
	balanceStr string
)

// Cmd represents the snapshot command.
var Cmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage balance snapshots",
	RunE:  listFunc,
}

// AddCmd represents the snapshot add subcommand.
var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an actual balance for an account on a date",
	RunE:  addFunc,
}

// DeleteCmd represents the snapshot delete subcommand.
var DeleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

// DumpCmd represents the snapshot dump subcommand.
var DumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Export all snapshots to a CSV file",
	RunE:  dumpFunc,
}

// LoadCmd represents the snapshot load subcommand.
var LoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import snapshots from a CSV file",
	RunE:  loadFunc,
}

func init() {
	AddCmd.Flags().StringVar(&accountID, "account", "", "Account id")
	AddCmd.Flags().StringVar(&dateStr, "date", "", "Snapshot date (YYYY-MM-DD)")
	AddCmd.Flags().StringVar(&balanceStr, "balance", "", "Actual balance")
	_ = AddCmd.MarkFlagRequired("account")
	_ = AddCmd.MarkFlagRequired("date")
	_ = AddCmd.MarkFlagRequired("balance")

	Cmd.AddCommand(AddCmd)
	Cmd.AddCommand(DeleteCmd)
	Cmd.AddCommand(DumpCmd)
	Cmd.AddCommand(LoadCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	snapshots, err := root.Store.ListSnapshots(cmd.Context(), ledger.SnapshotFilter{})
	if err != nil {
		return err
	}
	for _, s := range snapshots {
		fmt.Printf("%s\t%s\t%s\t%s\n", s.ID, s.AccountID, dateutils.ToISO(s.Date), s.Balance.String())
	}
	return nil
}

func addFunc(cmd *cobra.Command, args []string) error {
	date, err := dateutils.ParseISO(dateStr)
	if err != nil {
		return err
	}
	balance, err := decimal.NewFromString(strings.ReplaceAll(balanceStr, ",", "."))
	if err != nil {
		return fmt.Errorf("invalid balance %q", balanceStr)
	}

	r := networth.NewReconciler(root.Store, root.Log)
	s, err := r.CreateSnapshot(cmd.Context(), ledger.NewSnapshot{
		OwnerID:   root.Cfg.Owner.ID,
		AccountID: accountID,
		Date:      date,
		Balance:   balance,
	})
	if err != nil {
		return err
	}
	fmt.Println(s.ID)
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	r := networth.NewReconciler(root.Store, root.Log)
	return r.DeleteSnapshot(cmd.Context(), args[0])
}

func dumpFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Output == "" {
		return fmt.Errorf("--output is required")
	}
	d := csvio.NewSnapshotDumper(root.Store, root.Log)
	return d.Dump(cmd.Context(), root.SharedFlags.Output)
}

func loadFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}
	d := csvio.NewSnapshotDumper(root.Store, root.Log)
	result, err := d.Load(cmd.Context(), root.Cfg.Owner.ID, root.SharedFlags.Input)
	if err != nil {
		return err
	}

	fmt.Printf("%d snapshots importados\n", result.Success)
	for _, msg := range result.Errors {
		fmt.Println(msg)
	}
	return nil
}
