package main

import (
	"errors"

	cli "github.com/spf13/cobra"
)

var (
	loginCmd = &cli.Command{
		Use:   "login",
		Short: "Tap through the login screens once",
		RunE:  Login,
	}
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

func Login(cmd *cli.Command, args []string) error {
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

	if !d.RunLogin(ctx) {
		return errors.New("login sequence did not complete")
	}
	return nil
}
