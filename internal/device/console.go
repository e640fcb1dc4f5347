package device

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"jordanella.com/jianghu-auto/internal/cv"
)

// ScreenshotFile is the name used inside the emulator's Pictures share
const ScreenshotFile = "apk_scr.png"

// Sheller runs Android shell commands on an instance
type Sheller interface {
	Shell(ctx context.Context, index int, cmd string) (string, error)
}

// ConsoleDevice captures through LDPlayer's shared Pictures folder and
// sends input through ld
type ConsoleDevice struct {
	shell     Sheller
	index     int
	sharePath string
	settle    time.Duration
}

// NewConsoleDevice creates a device for the given instance. sharePath is the
// host folder mapped to /sdcard/Pictures.
func NewConsoleDevice(shell Sheller, index int, sharePath string, settle time.Duration) *ConsoleDevice {
	return &ConsoleDevice{
		shell:     shell,
		index:     index,
		sharePath: sharePath,
		settle:    settle,
	}
}

// Screencap asks the emulator to write a PNG to the share, waits for the
// file to land, then decodes it. A leftover file from an earlier capture is
// removed first so a failed capture is never mistaken for a fresh one.
func (d *ConsoleDevice) Screencap(ctx context.Context) (image.Image, error) {
	hostPath := filepath.Join(d.sharePath, ScreenshotFile)
	if err := os.Remove(hostPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to clear old screenshot: %w", err)
	}

	if _, err := d.shell.Shell(ctx, d.index, "screencap -p /sdcard/Pictures/"+ScreenshotFile); err != nil {
		return nil, fmt.Errorf("screencap failed: %w", err)
	}

	if err := sleep(ctx, d.settle); err != nil {
		return nil, err
	}

	img, err := cv.LoadGray(hostPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot from share: %w", err)
	}
	return img, nil
}

// Tap performs a tap at the specified coordinates
func (d *ConsoleDevice) Tap(ctx context.Context, x, y int) error {
	_, err := d.shell.Shell(ctx, d.index, fmt.Sprintf("input tap %d %d", x, y))
	return err
}

// Swipe performs a swipe gesture
func (d *ConsoleDevice) Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error {
	_, err := d.shell.Shell(ctx, d.index, fmt.Sprintf("input swipe %d %d %d %d %d",
		from.X, from.Y, to.X, to.Y, duration.Milliseconds()))
	return err
}
