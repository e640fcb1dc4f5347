package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// LoadFromINI loads configuration from a Settings.ini file. Keys that are
// missing keep their defaults.
func LoadFromINI(path string) (*Config, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	def := NewDefaultConfig()
	config := &Config{}

	section := cfg.Section("Settings")

	// Emulator
	config.EmulatorIndex = section.Key("emulatorIndex").MustInt(def.EmulatorIndex)
	config.Backend = Backend(strings.ToLower(section.Key("backend").MustString(string(def.Backend))))
	config.LDPath = section.Key("ldPath").MustString(def.LDPath)
	config.SharePath = os.ExpandEnv(section.Key("sharePath").MustString(def.SharePath))
	config.ADBPath = section.Key("adbPath").MustString(def.ADBPath)
	config.ADBSerial = section.Key("adbSerial").MustString(def.ADBSerial)
	config.PackageName = section.Key("packageName").MustString(def.PackageName)
	config.BootPoll = seconds(section.Key("bootPollSec").MustInt(15))

	// Templates and matching
	config.TemplateDir = section.Key("templateDir").MustString(def.TemplateDir)
	config.Threshold = section.Key("threshold").MustFloat64(def.Threshold)

	// Timing
	config.ClickDelay = millis(section.Key("clickDelayMs").MustInt(500))
	config.SwipeDuration = millis(section.Key("swipeDurationMs").MustInt(300))
	config.SwipeDelay = millis(section.Key("swipeDelayMs").MustInt(1000))
	config.CaptureSettle = millis(section.Key("captureSettleMs").MustInt(1000))
	config.LoopInterval = seconds(section.Key("loopIntervalSec").MustInt(300))
	config.Mode = Mode(strings.ToLower(section.Key("mode").MustString(string(def.Mode))))

	// Logging and history
	config.LogFile = section.Key("logFile").MustString(def.LogFile)
	config.LogLevel = section.Key("logLevel").MustString(def.LogLevel)
	config.JournalPath = section.Key("journalPath").MustString(def.JournalPath)

	daily := cfg.Section("Daily")
	config.BackX = daily.Key("backX").MustInt(def.BackX)
	config.BackY = daily.Key("backY").MustInt(def.BackY)
	config.StepDelay = millis(daily.Key("stepDelayMs").MustInt(2000))
	config.InterfaceTimeout = seconds(daily.Key("interfaceTimeoutSec").MustInt(10))
	config.WaitInterval = millis(daily.Key("waitIntervalMs").MustInt(1000))

	login := cfg.Section("Login")
	config.LoginWait = seconds(login.Key("waitSec").MustInt(30))
	config.LoginTemplates = def.LoginTemplates
	if raw := login.Key("templates").String(); raw != "" {
		config.LoginTemplates = splitList(raw)
	}

	return config, nil
}

// SaveToINI writes the configuration in the same layout LoadFromINI reads
func SaveToINI(config *Config, path string) error {
	cfg := ini.Empty()

	section := cfg.Section("Settings")
	section.Key("emulatorIndex").SetValue(fmt.Sprintf("%d", config.EmulatorIndex))
	section.Key("backend").SetValue(string(config.Backend))
	section.Key("ldPath").SetValue(config.LDPath)
	section.Key("sharePath").SetValue(config.SharePath)
	section.Key("adbPath").SetValue(config.ADBPath)
	section.Key("adbSerial").SetValue(config.ADBSerial)
	section.Key("packageName").SetValue(config.PackageName)
	section.Key("bootPollSec").SetValue(fmt.Sprintf("%d", int(config.BootPoll/time.Second)))
	section.Key("templateDir").SetValue(config.TemplateDir)
	section.Key("threshold").SetValue(fmt.Sprintf("%g", config.Threshold))
	section.Key("clickDelayMs").SetValue(fmt.Sprintf("%d", config.ClickDelay.Milliseconds()))
	section.Key("swipeDurationMs").SetValue(fmt.Sprintf("%d", config.SwipeDuration.Milliseconds()))
	section.Key("swipeDelayMs").SetValue(fmt.Sprintf("%d", config.SwipeDelay.Milliseconds()))
	section.Key("captureSettleMs").SetValue(fmt.Sprintf("%d", config.CaptureSettle.Milliseconds()))
	section.Key("loopIntervalSec").SetValue(fmt.Sprintf("%d", int(config.LoopInterval/time.Second)))
	section.Key("mode").SetValue(string(config.Mode))
	section.Key("logFile").SetValue(config.LogFile)
	section.Key("logLevel").SetValue(config.LogLevel)
	section.Key("journalPath").SetValue(config.JournalPath)

	daily := cfg.Section("Daily")
	daily.Key("backX").SetValue(fmt.Sprintf("%d", config.BackX))
	daily.Key("backY").SetValue(fmt.Sprintf("%d", config.BackY))
	daily.Key("stepDelayMs").SetValue(fmt.Sprintf("%d", config.StepDelay.Milliseconds()))
	daily.Key("interfaceTimeoutSec").SetValue(fmt.Sprintf("%d", int(config.InterfaceTimeout/time.Second)))
	daily.Key("waitIntervalMs").SetValue(fmt.Sprintf("%d", config.WaitInterval.Milliseconds()))

	login := cfg.Section("Login")
	login.Key("templates").SetValue(strings.Join(config.LoginTemplates, ","))
	login.Key("waitSec").SetValue(fmt.Sprintf("%d", int(config.LoginWait/time.Second)))

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func seconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
