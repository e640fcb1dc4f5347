package main

import (
	"fmt"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/emulator"
)

var (
	stopCmd = &cli.Command{
		Use:   "stop",
		Short: "Shut down the configured LDPlayer instance",
		RunE:  Stop,
	}
)

func init() {
	rootCmd.AddCommand(stopCmd)
}

func Stop(cmd *cli.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	console := emulator.NewConsole(a.cfg.LDPath, nil)
	if !console.IsRunning(ctx, a.cfg.EmulatorIndex) {
		a.logger.Info(fmt.Sprintf("Instance %d is not running", a.cfg.EmulatorIndex))
		return nil
	}
	if err := console.Quit(ctx, a.cfg.EmulatorIndex); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("Instance %d stopped", a.cfg.EmulatorIndex))
	return nil
}
