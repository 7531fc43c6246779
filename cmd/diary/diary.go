// Package diary shows the daily journal and manages day notes.
package diary

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finanzas/cmd/root"
	"finanzas/internal/dateutils"
	"finanzas/internal/diary"
)

var (
	startStr string
	endStr   string
	dateStr  string
)

// Cmd represents the diary command.
var Cmd = &cobra.Command{
	Use:   "diary",
	Short: "Show the daily journal for a date range",
	Long: `List each day's movements, income and expense sums, and note, most
recent day first. Defaults to the current month.`,
	RunE: diaryFunc,
}

// NoteCmd represents the diary note subcommand.
var NoteCmd = &cobra.Command{
	Use:   "note [text]",
	Short: "Set or clear the note for a day",
	Long: `Attach a free-text note to a calendar day. Calling without text, or with
only whitespace, removes the day's note.`,
	RunE: noteFunc,
}

func init() {
	Cmd.Flags().StringVar(&startStr, "start", "", "Range start (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&endStr, "end", "", "Range end (YYYY-MM-DD)")

	NoteCmd.Flags().StringVar(&dateStr, "date", "", "Day of the note (YYYY-MM-DD), default today")

	Cmd.AddCommand(NoteCmd)
}

func diaryFunc(cmd *cobra.Command, args []string) error {
	var start, end time.Time
	var err error
	if startStr == "" || endStr == "" {
		now := time.Now()
		start, end = dateutils.MonthRange(now.Year(), now.Month())
	} else {
		if start, err = dateutils.ParseISO(startStr); err != nil {
			return err
		}
		if end, err = dateutils.ParseISO(endStr); err != nil {
			return err
		}
	}

	d := diary.NewDiary(root.Store, root.Log)
	entries, err := d.Entries(cmd.Context(), start, end)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Printf("%s\tingresos %s\tgastos %s\t%d movimientos\n",
			dateutils.ToISO(e.Date), e.Rollup.Income.String(), e.Rollup.Expense.String(), e.Rollup.Count)
		if e.HasNote {
			fmt.Printf("\t%s\n", e.Note)
		}
	}
	return nil
}

func noteFunc(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if dateStr != "" {
		t, err := dateutils.ParseISO(dateStr)
		if err != nil {
			return err
		}
		day = t
	}

	var text string
	if len(args) > 0 {
		text = args[0]
	}

	note, err := root.Store.UpsertDayNote(cmd.Context(), root.Cfg.Owner.ID, day, text)
	if err != nil {
		return err
	}
	if note == nil {
		fmt.Println("nota eliminada")
		return nil
	}
	fmt.Println("nota guardada")
	return nil
}
