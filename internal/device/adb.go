package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"jordanella.com/jianghu-auto/internal/cv"
	"jordanella.com/jianghu-auto/internal/logging"
)

// ADBController is the subset of adb.Controller used here
type ADBController interface {
	Screencap(ctx context.Context) ([]byte, error)
	Tap(ctx context.Context, x, y int) error
	Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error
}

// ADBSession is a controller that still has to be attached
type ADBSession interface {
	ADBController
	Serial() string
	Connect(ctx context.Context) error
	Devices(ctx context.Context) ([]string, error)
	GetWindowSize(ctx context.Context) (int, int, error)
}

type appStarter interface {
	IsAppRunning(ctx context.Context, packageName string) bool
	StartApp(ctx context.Context, packageName string) error
}

type disconnecter interface {
	Disconnect(ctx context.Context) error
}

// AppLauncher is implemented by backends that can start the game without
// going through ldconsole
type AppLauncher interface {
	EnsureApp(ctx context.Context, packageName string) (started bool, err error)
}

// ErrNotAttached is returned when adb does not list the configured serial
var ErrNotAttached = errors.New("device not attached")

// ADBDevice streams screenshots over adb exec-out
type ADBDevice struct {
	ctrl ADBController
}

// NewADBDevice wraps a connected controller
func NewADBDevice(ctrl ADBController) *ADBDevice {
	return &ADBDevice{ctrl: ctrl}
}

// ConnectADB connects the session, checks that adb lists its serial and
// wraps it
func ConnectADB(ctx context.Context, session ADBSession, logger *logging.Logger) (*ADBDevice, error) {
	if err := session.Connect(ctx); err != nil {
		return nil, err
	}

	serials, err := session.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list adb devices: %w", err)
	}
	attached := false
	for _, s := range serials {
		if s == session.Serial() {
			attached = true
			break
		}
	}
	if !attached {
		return nil, fmt.Errorf("%w: %s (adb lists %v)", ErrNotAttached, session.Serial(), serials)
	}

	if w, h, err := session.GetWindowSize(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Could not read screen size: %v", err))
	} else {
		logger.Info(fmt.Sprintf("Screen size %dx%d", w, h))
	}

	return NewADBDevice(session), nil
}

// Screencap decodes the PNG returned by the device in memory
func (d *ADBDevice) Screencap(ctx context.Context) (image.Image, error) {
	data, err := d.ctrl.Screencap(ctx)
	if err != nil {
		return nil, err
	}
	img, err := cv.DecodeGray(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return img, nil
}

func (d *ADBDevice) Tap(ctx context.Context, x, y int) error {
	return d.ctrl.Tap(ctx, x, y)
}

func (d *ADBDevice) Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error {
	return d.ctrl.Swipe(ctx, from.X, from.Y, to.X, to.Y, int(duration.Milliseconds()))
}

// EnsureApp starts packageName unless it already has a process
func (d *ADBDevice) EnsureApp(ctx context.Context, packageName string) (bool, error) {
	starter, ok := d.ctrl.(appStarter)
	if !ok {
		return false, fmt.Errorf("controller %T cannot start apps", d.ctrl)
	}
	if starter.IsAppRunning(ctx, packageName) {
		return false, nil
	}
	if err := starter.StartApp(ctx, packageName); err != nil {
		return false, err
	}
	return true, nil
}

// Close drops a network adb connection
func (d *ADBDevice) Close() error {
	dc, ok := d.ctrl.(disconnecter)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return dc.Disconnect(ctx)
}
