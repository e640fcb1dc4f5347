package main

import (
	"fmt"
	"text/tabwriter"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/emulator"
)

var (
	instancesCmd = &cli.Command{
		Use:   "instances",
		Short: "List LDPlayer instances",
		RunE:  Instances,
	}
)

func init() {
	rootCmd.AddCommand(instancesCmd)
}

func Instances(cmd *cli.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	console := emulator.NewConsole(a.cfg.LDPath, nil)
	instances, err := console.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tTITLE\tANDROID\tPID")
	for _, inst := range instances {
		started := "stopped"
		if inst.AndroidStarted {
			started = "started"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", inst.Index, inst.Title, started, inst.PID)
	}
	return w.Flush()
}
