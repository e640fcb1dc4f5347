package main

import (
	"errors"
	"fmt"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/cv"
)

var (
	captureCmd = &cli.Command{
		Use:   "capture",
		Short: "Save the current emulator screen, useful for cutting templates",
		RunE:  Capture,
	}
)

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().StringP("out", "o", "screen.png", "Output image path")
}

func Capture(cmd *cli.Command, args []string) error {
	ctx := cmd.Context()
	out, _ := cmd.Flags().GetString("out")

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.driver(ctx)
	if err != nil {
		return err
	}

	screen, ok := d.CaptureScreen(ctx)
	if !ok {
		return errors.New("screen capture failed")
	}
	if err := cv.SaveImage(screen, out); err != nil {
		return err
	}

	b := screen.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %dx%d screenshot to %s\n", b.Dx(), b.Dy(), out)
	return nil
}
