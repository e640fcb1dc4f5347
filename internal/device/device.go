package device

import (
	"context"
	"fmt"
	"image"
	"time"

	"jordanella.com/jianghu-auto/internal/adb"
	"jordanella.com/jianghu-auto/internal/config"
	"jordanella.com/jianghu-auto/internal/emulator"
	"jordanella.com/jianghu-auto/internal/logging"
)

// Device is the emulator surface the driver works against
type Device interface {
	// Screencap returns the current screen
	Screencap(ctx context.Context) (image.Image, error)
	Tap(ctx context.Context, x, y int) error
	Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error
}

// New builds the backend selected by cfg.Backend
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (Device, error) {
	switch cfg.Backend {
	case config.BackendConsole:
		console := emulator.NewConsole(cfg.LDPath, nil)
		logger.Debug(fmt.Sprintf("Using console backend on instance %d, share %s", cfg.EmulatorIndex, cfg.SharePath))
		return NewConsoleDevice(console, cfg.EmulatorIndex, cfg.SharePath, cfg.CaptureSettle), nil

	case config.BackendADB:
		adbPath, err := adb.FindADB(cfg.ADBPath, cfg.LDPath)
		if err != nil {
			return nil, err
		}
		ctrl := adb.NewController(adbPath, cfg.Serial(), nil)
		logger.Debug(fmt.Sprintf("Using adb backend %s on %s", adbPath, ctrl.Serial()))
		dev, err := ConnectADB(ctx, ctrl, logger)
		if err != nil {
			return nil, err
		}
		return dev, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Close releases backend resources when dev holds any
func Close(dev Device) error {
	if c, ok := dev.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
