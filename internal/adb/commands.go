package adb

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// Tap performs a tap at the specified screen coordinates
func (c *Controller) Tap(ctx context.Context, x, y int) error {
	_, err := c.Shell(ctx, fmt.Sprintf("input tap %d %d", x, y))
	return err
}

// Swipe performs a swipe gesture lasting durationMs
func (c *Controller) Swipe(ctx context.Context, x1, y1, x2, y2, durationMs int) error {
	_, err := c.Shell(ctx, fmt.Sprintf("input swipe %d %d %d %d %d", x1, y1, x2, y2, durationMs))
	return err
}

// StartApp launches the package's launcher activity
func (c *Controller) StartApp(ctx context.Context, packageName string) error {
	output, err := c.Shell(ctx, fmt.Sprintf("monkey -p %s -c android.intent.category.LAUNCHER 1", packageName))
	if err != nil {
		return err
	}
	if strings.Contains(output, "No activities found") {
		return fmt.Errorf("package %s is not installed", packageName)
	}
	return nil
}

// IsAppRunning checks if an app is currently running
func (c *Controller) IsAppRunning(ctx context.Context, packageName string) bool {
	output, err := c.Shell(ctx, fmt.Sprintf("pidof %s", packageName))
	if err != nil {
		return false // pidof exits non-zero if not found
	}
	return len(output) > 0
}

// Shell executes a shell command and returns trimmed output
func (c *Controller) Shell(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	output, err := c.runner.Run(ctx, c.path, "-s", c.device, "shell", command)
	if err != nil {
		return "", fmt.Errorf("shell command failed: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Screencap returns the current screen as PNG bytes, streamed straight
// from the device without touching its storage
func (c *Controller) Screencap(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	output, err := c.runner.Run(ctx, c.path, "-s", c.device, "exec-out", "screencap", "-p")
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	// Older adb builds on Windows translate \n to \r\n on the shell channel
	if !bytes.HasPrefix(output, pngSignature) {
		fixed := bytes.ReplaceAll(output, []byte("\r\n"), []byte("\n"))
		if !bytes.HasPrefix(fixed, pngSignature) {
			return nil, fmt.Errorf("screencap returned %d bytes without a PNG header", len(output))
		}
		output = fixed
	}

	return output, nil
}

// GetWindowSize returns the current screen size
func (c *Controller) GetWindowSize(ctx context.Context) (width, height int, err error) {
	output, err := c.Shell(ctx, "wm size")
	if err != nil {
		return 0, 0, err
	}
	return parseWindowSize(output)
}

func parseWindowSize(output string) (int, int, error) {
	var w, h int
	// An override line, when present, follows the physical one and wins
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if _, err := fmt.Sscanf(line, "Override size: %dx%d", &w, &h); err == nil {
			return w, h, nil
		}
		if _, err := fmt.Sscanf(line, "Physical size: %dx%d", &w, &h); err == nil {
			return w, h, nil
		}
	}
	return 0, 0, fmt.Errorf("failed to parse window size: %s", output)
}
