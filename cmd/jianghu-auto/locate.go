package main

import (
	"errors"
	"fmt"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/device"
)

var (
	locateCmd = &cli.Command{
		Use:   "locate [template...]",
		Short: "Report where templates match on the live screen or a saved image",
		RunE:  Locate,
	}
)

func init() {
	rootCmd.AddCommand(locateCmd)

	locateCmd.Flags().String("image", "", "Search this image file instead of capturing the screen")
	locateCmd.Flags().Float64P("threshold", "t", 0, "Match threshold (0 uses the template or default threshold)")
}

func Locate(cmd *cli.Command, args []string) error {
	ctx := cmd.Context()
	imagePath, _ := cmd.Flags().GetString("image")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	offline := imagePath != ""
	a, err := newApp(cmd, !offline)
	if err != nil {
		return err
	}
	defer a.Close()

	var dev device.Device = device.NewFileDevice(imagePath)
	if !offline {
		if dev, err = a.device(ctx); err != nil {
			return err
		}
	}

	d, err := a.driverFor(dev)
	if err != nil {
		return err
	}

	screen, ok := d.CaptureScreen(ctx)
	if !ok {
		return errors.New("screen capture failed")
	}

	names := args
	if len(names) == 0 {
		names = d.Templates().Names()
	}

	for _, name := range names {
		result, ok := d.Locate(screen, name, threshold)
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s found at (%d, %d) confidence %.3f\n",
				name, result.Location.X, result.Location.Y, result.Confidence)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s no match (best %.3f)\n", name, result.Confidence)
		}
	}
	return nil
}
