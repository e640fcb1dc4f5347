package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backend selects how screenshots and input reach the emulator
type Backend string

const (
	BackendConsole Backend = "console" // LDPlayer ld.exe shell + shared folder
	BackendADB     Backend = "adb"     // adb exec-out / shell input
)

// Mode selects what the run command does after the game is launched
type Mode string

const (
	ModeDaily Mode = "daily" // recurring daily-task loop
	ModeLogin Mode = "login" // one-shot login tap sequence
)

// Config holds every setting read from Settings.ini
type Config struct {
	// Emulator
	EmulatorIndex int
	Backend       Backend
	LDPath        string // LDPlayer install folder holding ldconsole.exe and ld.exe
	SharePath     string // host side of the emulator's /sdcard/Pictures share
	ADBPath       string
	ADBSerial     string
	PackageName   string
	BootPoll      time.Duration

	// Templates and matching
	TemplateDir string
	Threshold   float64

	// Timing
	ClickDelay    time.Duration
	SwipeDuration time.Duration
	SwipeDelay    time.Duration
	CaptureSettle time.Duration
	LoopInterval  time.Duration
	Mode          Mode

	// Daily task script
	BackX            int
	BackY            int
	StepDelay        time.Duration
	InterfaceTimeout time.Duration
	WaitInterval     time.Duration

	// Login sequence
	LoginTemplates []string
	LoginWait      time.Duration

	// Logging and history
	LogFile     string
	LogLevel    string
	JournalPath string // empty disables the SQLite run history
}

// NewDefaultConfig returns the settings used when Settings.ini is absent
func NewDefaultConfig() *Config {
	return &Config{
		EmulatorIndex: 0,
		Backend:       BackendConsole,
		LDPath:        `C:\LDPlayer\LDPlayer9`,
		SharePath:     DefaultSharePath(),
		PackageName:   "com.xhtt.app.fzjh",
		BootPoll:      15 * time.Second,

		TemplateDir: "templates",
		Threshold:   0.8,

		ClickDelay:    500 * time.Millisecond,
		SwipeDuration: 300 * time.Millisecond,
		SwipeDelay:    time.Second,
		CaptureSettle: time.Second,
		LoopInterval:  300 * time.Second,
		Mode:          ModeDaily,

		BackX:            50,
		BackY:            50,
		StepDelay:        2 * time.Second,
		InterfaceTimeout: 10 * time.Second,
		WaitInterval:     time.Second,

		LoginTemplates: []string{"qq", "jianghu"},
		LoginWait:      30 * time.Second,

		LogFile:  "jianghu_auto.log",
		LogLevel: "INFO",
	}
}

// DefaultSharePath returns the host folder LDPlayer 9 shares as the
// emulator's /sdcard/Pictures
func DefaultSharePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.ExpandEnv("${USERPROFILE}")
	}
	return filepath.Join(home, "Documents", "leidian9", "Pictures")
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendConsole:
		if c.SharePath == "" {
			return fmt.Errorf("backend %q requires sharePath", c.Backend)
		}
		if c.LDPath == "" {
			return fmt.Errorf("backend %q requires ldPath", c.Backend)
		}
	case BackendADB:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendConsole, BackendADB)
	}

	switch c.Mode {
	case ModeDaily, ModeLogin:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeDaily, ModeLogin)
	}

	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %.2f outside (0,1]", c.Threshold)
	}
	if c.EmulatorIndex < 0 {
		return fmt.Errorf("emulatorIndex must not be negative")
	}
	if c.WaitInterval <= 0 {
		return fmt.Errorf("waitIntervalMs must be positive")
	}
	if c.BootPoll <= 0 {
		return fmt.Errorf("bootPollSec must be positive")
	}

	return nil
}

// Serial returns the adb serial for the configured instance. LDPlayer
// instance n listens on console port 5554+2n unless adbSerial overrides it.
func (c *Config) Serial() string {
	if c.ADBSerial != "" {
		return c.ADBSerial
	}
	return fmt.Sprintf("emulator-%d", 5554+2*c.EmulatorIndex)
}
