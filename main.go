package main

import (
	"fmt"
	"os"

	"finanzas/cmd/balance"
	"finanzas/cmd/diary"
	"finanzas/cmd/export"
	"finanzas/cmd/importcsv"
	"finanzas/cmd/networth"
	"finanzas/cmd/recurring"
	"finanzas/cmd/root"
	"finanzas/cmd/seed"
	"finanzas/cmd/snapshot"
	"finanzas/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(balance.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(networth.Cmd)
	root.Cmd.AddCommand(snapshot.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(diary.Cmd)
	root.Cmd.AddCommand(recurring.Cmd)
	root.Cmd.AddCommand(seed.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
