package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/spf13/cobra"
	"jordanella.com/jianghu-auto/internal/bot"
	"jordanella.com/jianghu-auto/internal/config"
	"jordanella.com/jianghu-auto/internal/cv"
	"jordanella.com/jianghu-auto/internal/database"
	"jordanella.com/jianghu-auto/internal/device"
	"jordanella.com/jianghu-auto/internal/logging"
	"jordanella.com/jianghu-auto/pkg/templates"
)

// app holds what every subcommand sets up once at start
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	closeLog func() error
	journal  *database.Journal
	dev      device.Device
}

// newApp loads settings, applies flag overrides and configures logging.
// needDevice enables the checks that only matter when talking to the
// emulator.
func newApp(cmd *cli.Command, needDevice bool) (*app, error) {
	path, _ := cmd.Flags().GetString("config")

	var warning string
	cfg := config.NewDefaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		warning = fmt.Sprintf("Settings file %s not found, using defaults", path)
	} else {
		loaded, err := config.LoadFromINI(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("index") {
		cfg.EmulatorIndex, _ = flags.GetInt("index")
	}
	if flags.Changed("backend") {
		backend, _ := flags.GetString("backend")
		cfg.Backend = config.Backend(backend)
	}
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		cfg.Mode = config.Mode(mode)
	}

	logger, closeLog, err := logging.Setup(logging.Options{
		Component: "jianghu",
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}
	if warning != "" {
		logger.Warn(warning)
	}

	if needDevice {
		if err := cfg.Validate(); err != nil {
			closeLog()
			return nil, fmt.Errorf("invalid settings: %w", err)
		}
	}

	return &app{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

// device connects the configured backend once
func (a *app) device(ctx context.Context) (device.Device, error) {
	if a.dev != nil {
		return a.dev, nil
	}
	dev, err := device.New(ctx, a.cfg, a.logger.Named("device"))
	if err != nil {
		return nil, err
	}
	a.dev = dev
	return dev, nil
}

// driver builds the device, template library and driver with run history
func (a *app) driver(ctx context.Context) (*bot.Driver, error) {
	dev, err := a.device(ctx)
	if err != nil {
		return nil, err
	}

	d, err := a.driverFor(dev)
	if err != nil {
		return nil, err
	}

	if a.cfg.JournalPath != "" {
		journal, err := database.OpenJournal(a.cfg.JournalPath, a.cfg.EmulatorIndex, a.logger.Named("journal"))
		if err != nil {
			// Run history is optional
			a.logger.Error("Run history disabled", err)
		} else {
			a.journal = journal
			d.SetJournal(journal)
		}
	}

	return d, nil
}

// driverFor loads the templates and binds them to dev
func (a *app) driverFor(dev device.Device) (*bot.Driver, error) {
	lib, err := templates.Load(a.cfg.TemplateDir, a.logger.Named("templates"))
	if err != nil {
		return nil, err
	}

	matcher := cv.NewMatcher()
	a.logger.Debug(fmt.Sprintf("Using %s matcher", matcher.Name()))

	return bot.NewDriver(dev, lib, matcher, a.logger.Named("driver"), bot.SettingsFromConfig(a.cfg)), nil
}

func (a *app) Close() {
	if a.dev != nil {
		if err := device.Close(a.dev); err != nil {
			a.logger.Error("Failed to release device", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Error("Failed to close run history", err)
		}
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}
