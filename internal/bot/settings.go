package bot

import (
	"image"
	"time"

	"jordanella.com/jianghu-auto/internal/config"
	"jordanella.com/jianghu-auto/internal/cv"
)

// Settings holds the driver's timing and script parameters
type Settings struct {
	Threshold     float64
	ClickDelay    time.Duration
	SwipeDuration time.Duration
	SwipeDelay    time.Duration

	// Daily script
	StepDelay        time.Duration
	InterfaceTimeout time.Duration
	WaitInterval     time.Duration
	BackPoint        image.Point

	// Login sequence
	LoginTemplates []string
	LoginWait      time.Duration
}

// DefaultSettings returns the stock timings
func DefaultSettings() Settings {
	return Settings{
		Threshold:        cv.DefaultThreshold,
		ClickDelay:       500 * time.Millisecond,
		SwipeDuration:    300 * time.Millisecond,
		SwipeDelay:       time.Second,
		StepDelay:        2 * time.Second,
		InterfaceTimeout: 10 * time.Second,
		WaitInterval:     time.Second,
		BackPoint:        image.Pt(50, 50),
		LoginTemplates:   []string{"qq", "jianghu"},
		LoginWait:        30 * time.Second,
	}
}

// SettingsFromConfig maps Settings.ini values onto driver settings
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Threshold:        cfg.Threshold,
		ClickDelay:       cfg.ClickDelay,
		SwipeDuration:    cfg.SwipeDuration,
		SwipeDelay:       cfg.SwipeDelay,
		StepDelay:        cfg.StepDelay,
		InterfaceTimeout: cfg.InterfaceTimeout,
		WaitInterval:     cfg.WaitInterval,
		BackPoint:        image.Pt(cfg.BackX, cfg.BackY),
		LoginTemplates:   cfg.LoginTemplates,
		LoginWait:        cfg.LoginWait,
	}
}
