package bot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"jordanella.com/jianghu-auto/internal/cv"
	"jordanella.com/jianghu-auto/internal/device"
	"jordanella.com/jianghu-auto/internal/logging"
	"jordanella.com/jianghu-auto/pkg/templates"
)

// Driver ties the template library to one emulator device. It is not safe
// for concurrent use; every operation runs to completion before the next.
type Driver struct {
	device   device.Device
	library  *templates.Library
	matcher  cv.Matcher
	logger   *logging.Logger
	settings Settings
	journal  Journal

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewDriver creates a driver. A nil matcher selects cv.NewMatcher().
func NewDriver(dev device.Device, library *templates.Library, matcher cv.Matcher, logger *logging.Logger, settings Settings) *Driver {
	if matcher == nil {
		matcher = cv.NewMatcher()
	}
	if library == nil {
		library = templates.NewLibrary("")
	}
	return &Driver{
		device:   dev,
		library:  library,
		matcher:  matcher,
		logger:   logger,
		settings: settings,
		journal:  noopJournal{},
		sleep:    sleepContext,
		now:      time.Now,
	}
}

// SetJournal attaches a run history sink
func (d *Driver) SetJournal(j Journal) {
	if j == nil {
		j = noopJournal{}
	}
	d.journal = j
}

// Settings returns the driver's settings
func (d *Driver) Settings() Settings {
	return d.settings
}

// Templates returns the loaded template library
func (d *Driver) Templates() *templates.Library {
	return d.library
}

// CaptureScreen grabs the current screen as grayscale. Failures are logged
// and reported as false.
func (d *Driver) CaptureScreen(ctx context.Context) (*image.Gray, bool) {
	img, err := d.device.Screencap(ctx)
	if err != nil {
		d.logger.Error("Screenshot failed", fmt.Errorf("%w: %v", ErrCaptureFailed, err))
		return nil, false
	}
	return cv.ToGray(img), true
}

// Locate finds the named template on screen. threshold <= 0 selects the
// template's own threshold, falling back to the driver default. The
// returned location is the center of the best match.
func (d *Driver) Locate(screen *image.Gray, name string, threshold float64) (cv.MatchResult, bool) {
	result, err := d.locate(screen, name, threshold)
	if err != nil {
		if errors.Is(err, ErrTemplateMissing) {
			d.logger.Warn(err.Error())
		} else {
			d.logger.Debug(err.Error())
		}
		return result, false
	}
	return result, true
}

func (d *Driver) locate(screen *image.Gray, name string, threshold float64) (cv.MatchResult, error) {
	tmpl, ok := d.library.Get(name)
	if !ok {
		return cv.MatchResult{}, fmt.Errorf("%w: %s", ErrTemplateMissing, name)
	}
	if screen == nil {
		return cv.MatchResult{}, fmt.Errorf("%w: no screen to search for %s", ErrCaptureFailed, name)
	}

	config := tmpl.MatchConfig(d.settings.Threshold)
	if threshold > 0 {
		config.Threshold = threshold
	}

	result := d.matcher.Match(screen, tmpl.Image, config)
	if !result.Found {
		return result, fmt.Errorf("%w: %s best %.3f < %.2f", ErrNoMatch, name, result.Confidence, config.Threshold)
	}

	d.logger.Debug(fmt.Sprintf("Matched %s at (%d, %d) confidence %.3f",
		name, result.Location.X, result.Location.Y, result.Confidence))
	return result, nil
}

// ClickPoint taps (x, y) then pauses for delay. Failures are logged.
func (d *Driver) ClickPoint(ctx context.Context, x, y int, delay time.Duration) {
	d.clickPoint(ctx, x, y, delay)
}

func (d *Driver) clickPoint(ctx context.Context, x, y int, delay time.Duration) error {
	if err := d.device.Tap(ctx, x, y); err != nil {
		err = fmt.Errorf("%w: tap (%d, %d): %v", ErrActionFailed, x, y, err)
		d.logger.Error("Click failed", err)
		return err
	}
	d.logger.Debug(fmt.Sprintf("Clicked (%d, %d)", x, y))
	d.sleep(ctx, delay)
	return nil
}

// ClickTemplate captures, locates name and taps its center. It returns true
// only when a tap was issued.
func (d *Driver) ClickTemplate(ctx context.Context, name string, threshold float64) bool {
	screen, ok := d.CaptureScreen(ctx)
	if !ok {
		return false
	}

	result, ok := d.Locate(screen, name, threshold)
	if !ok {
		return false
	}

	return d.clickPoint(ctx, result.Location.X, result.Location.Y, d.settings.ClickDelay) == nil
}

// Swipe drags from (x1, y1) to (x2, y2) over duration then pauses for
// delay. Zero or negative values use the configured swipe timings.
func (d *Driver) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration, delay time.Duration) {
	if duration <= 0 {
		duration = d.settings.SwipeDuration
	}
	if delay <= 0 {
		delay = d.settings.SwipeDelay
	}
	if err := d.device.Swipe(ctx, image.Pt(x1, y1), image.Pt(x2, y2), duration); err != nil {
		d.logger.Error("Swipe failed", fmt.Errorf("%w: %v", ErrActionFailed, err))
		return
	}
	d.logger.Debug(fmt.Sprintf("Swiped (%d, %d) -> (%d, %d)", x1, y1, x2, y2))
	d.sleep(ctx, delay)
}

// WaitForTemplate polls every interval until name is visible or timeout
// elapses
func (d *Driver) WaitForTemplate(ctx context.Context, name string, timeout, interval time.Duration, threshold float64) bool {
	start := d.now()
	for d.now().Sub(start) < timeout {
		if screen, ok := d.CaptureScreen(ctx); ok {
			if _, found := d.Locate(screen, name, threshold); found {
				d.logger.Info(fmt.Sprintf("Found template '%s'", name))
				return true
			}
		}
		if err := d.sleep(ctx, interval); err != nil {
			return false
		}
	}

	d.logger.Warn(fmt.Sprintf("Timed out waiting for template '%s' after %v", name, timeout))
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
