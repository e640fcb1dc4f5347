package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/cobra"
)

var (
	// The root command; subcommands register themselves in init
	rootCmd = &cli.Command{
		Use:           "jianghu-auto",
		Short:         "Screen automation for the game running in an LDPlayer instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "Settings.ini", "Path to the settings file")
	rootCmd.PersistentFlags().IntP("index", "i", 0, "Emulator instance index (overrides emulatorIndex)")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "Device backend: console or adb (overrides backend)")
	rootCmd.PersistentFlags().StringP("mode", "m", "", "Run mode: daily or login (overrides mode)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		stop()
		os.Exit(1)
	}
}
