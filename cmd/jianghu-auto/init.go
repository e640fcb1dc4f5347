package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/config"
)

var (
	initCmd = &cli.Command{
		Use:   "init",
		Short: "Write a Settings.ini populated with defaults",
		RunE:  Init,
	}
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing settings file")
}

func Init(cmd *cli.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.SaveToINI(config.NewDefaultConfig(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default settings to %s\n", path)
	return nil
}
