package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/database"
)

var (
	historyCmd = &cli.Command{
		Use:   "history",
		Short: "Show recent script runs from the run history database",
		RunE:  History,
	}
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
}

func History(cmd *cli.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.JournalPath == "" {
		return errors.New("journalPath is not set in Settings.ini")
	}

	journal, err := database.OpenJournal(a.cfg.JournalPath, a.cfg.EmulatorIndex, a.logger.Named("journal"))
	if err != nil {
		return err
	}
	defer journal.Close()

	runs, err := journal.DB().RecentRuns(limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tKIND\tINSTANCE\tSTATUS\tSTEPS\tDETAIL")
	for _, run := range runs {
		detail := ""
		if run.Detail != nil {
			detail = *run.Detail
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d/%d\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"), run.Kind, run.EmulatorIndex,
			run.Status, run.SuccessCount, run.StepCount, detail)
	}
	return w.Flush()
}
