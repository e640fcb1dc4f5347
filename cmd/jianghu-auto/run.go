package main

import (
	"fmt"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/config"
	"jordanella.com/jianghu-auto/internal/device"
	"jordanella.com/jianghu-auto/internal/emulator"
)

var (
	runCmd = &cli.Command{
		Use:   "run",
		Short: "Boot the emulator, start the game, then run the configured mode",
		RunE:  Run,
	}
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("skip-boot", false, "Assume the emulator and game are already running")
}

func Run(cmd *cli.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	skip, _ := cmd.Flags().GetBool("skip-boot")
	if !skip {
		console := emulator.NewConsole(a.cfg.LDPath, nil)
		if err := emulator.Boot(ctx, console, a.cfg.EmulatorIndex, a.cfg.PackageName, a.cfg.BootPoll, a.logger.Named("emulator")); err != nil {
			return fmt.Errorf("emulator boot failed: %w", err)
		}
	}

	dev, err := a.device(ctx)
	if err != nil {
		return err
	}

	// With the emulator already up, adb can still bring the game forward
	if launcher, ok := dev.(device.AppLauncher); ok && skip {
		started, err := launcher.EnsureApp(ctx, a.cfg.PackageName)
		if err != nil {
			return fmt.Errorf("failed to start %s: %w", a.cfg.PackageName, err)
		}
		if started {
			a.logger.Info(fmt.Sprintf("Started %s", a.cfg.PackageName))
		}
	}

	d, err := a.driver(ctx)
	if err != nil {
		return err
	}

	switch a.cfg.Mode {
	case config.ModeLogin:
		if !d.RunLogin(ctx) {
			a.logger.Warn("Login sequence did not complete")
		}
		return nil
	default:
		return d.MainLoop(ctx, a.cfg.LoopInterval)
	}
}
