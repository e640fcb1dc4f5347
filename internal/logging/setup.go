package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// Options configures the process-wide root logger
type Options struct {
	Component string
	Level     string
	File      string // empty disables file output
}

// Setup builds the root logger once at process start. Logs go to stdout and,
// when File is set, are appended to that file. The returned close func
// releases the file.
func Setup(opts Options) (*Logger, func() error, error) {
	component := opts.Component
	if component == "" {
		component = "main"
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := NewLogger(component).SetMinLevel(level)
	closeFn := func() error { return nil }

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		logFile, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		logger.AddOutput(logFile)
		closeFn = logFile.Close
	}

	return logger, closeFn, nil
}
