package adb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"jordanella.com/jianghu-auto/internal/command"
)

// Controller drives one device through the adb binary
type Controller struct {
	path      string
	device    string // serial: "emulator-5554" or "127.0.0.1:port"
	runner    command.Runner
	mu        sync.Mutex
	connected bool
}

// NewController creates a controller for the given serial. A nil runner
// executes adb directly.
func NewController(adbPath, serial string, runner command.Runner) *Controller {
	if runner == nil {
		runner = command.ExecRunner{}
	}
	return &Controller{
		path:   adbPath,
		device: serial,
		runner: runner,
	}
}

// Serial returns the device serial this controller targets
func (c *Controller) Serial() string {
	return c.device
}

// Connect attaches to network serials ("host:port"). Local emulator serials
// are already known to the adb server and need no connect.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.Contains(c.device, ":") {
		c.connected = true
		return nil
	}

	output, err := c.runner.Run(ctx, c.path, "connect", c.device)
	if err != nil {
		return fmt.Errorf("failed to connect to device %s: %w", c.device, err)
	}

	// Verify connection
	if !strings.Contains(string(output), "connected") {
		return fmt.Errorf("unexpected connect output: %s", strings.TrimSpace(string(output)))
	}

	c.connected = true
	return nil
}

// Disconnect drops a network connection made by Connect
func (c *Controller) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected && strings.Contains(c.device, ":") {
		if _, err := c.runner.Run(ctx, c.path, "disconnect", c.device); err != nil {
			return fmt.Errorf("failed to disconnect %s: %w", c.device, err)
		}
	}

	c.connected = false
	return nil
}

// IsConnected returns whether the controller is connected
func (c *Controller) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Devices lists serials reported by "adb devices" in the "device" state
func (c *Controller) Devices(ctx context.Context) ([]string, error) {
	output, err := c.runner.Run(ctx, c.path, "devices")
	if err != nil {
		return nil, err
	}
	return parseDevices(string(output)), nil
}

func parseDevices(output string) []string {
	var serials []string
	for _, line := range strings.Split(output, "\n") {
		parts := strings.Fields(line)
		if len(parts) == 2 && parts[1] == "device" {
			serials = append(serials, parts[0])
		}
	}
	return serials
}
