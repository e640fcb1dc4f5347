package main

import (
	"fmt"

	cli "github.com/spf13/cobra"
)

var (
	dailyCmd = &cli.Command{
		Use:   "daily",
		Short: "Run the daily task script against a running game",
		RunE:  Daily,
	}
)

func init() {
	rootCmd.AddCommand(dailyCmd)

	dailyCmd.Flags().Bool("once", false, "Run a single pass instead of looping")
}

func Daily(cmd *cli.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.driver(ctx)
	if err != nil {
		return err
	}

	if once, _ := cmd.Flags().GetBool("once"); !once {
		return d.MainLoop(ctx, a.cfg.LoopInterval)
	}

	report := d.RunDailyTasks(ctx)
	for _, step := range report.Steps {
		state := "ok"
		switch {
		case step.Skipped:
			state = "skipped"
		case !step.OK:
			state = "missed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", step.Name, state)
	}
	if !report.Completed() {
		return fmt.Errorf("daily tasks stopped at %s", report.FailedAt())
	}
	return nil
}
