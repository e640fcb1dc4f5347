package emulator

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"jordanella.com/jianghu-auto/internal/command"
)

// Instance is one row of "ldconsole list2"
type Instance struct {
	Index          int
	Title          string
	TopWindow      int64 // top-level window handle
	BindWindow     int64 // render window handle
	AndroidStarted bool
	PID            int
	VBoxPID        int
}

// Console wraps LDPlayer's ldconsole and ld command-line tools
type Console struct {
	ldconsole string
	ld        string
	runner    command.Runner
}

// NewConsole locates ldconsole and ld inside the LDPlayer install folder.
// A nil runner executes the binaries directly.
func NewConsole(ldPath string, runner command.Runner) *Console {
	if runner == nil {
		runner = command.ExecRunner{}
	}
	ext := ""
	if runtime.GOOS == "windows" {
		ext = ".exe"
	}
	return &Console{
		ldconsole: filepath.Join(ldPath, "ldconsole"+ext),
		ld:        filepath.Join(ldPath, "ld"+ext),
		runner:    runner,
	}
}

func (c *Console) run(ctx context.Context, args ...string) (string, error) {
	output, err := c.runner.Run(ctx, c.ldconsole, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// List returns every configured instance
func (c *Console) List(ctx context.Context) ([]Instance, error) {
	output, err := c.run(ctx, "list2")
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	return parseList2(output)
}

func parseList2(output string) ([]Instance, error) {
	var instances []Instance
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 7 {
			return nil, fmt.Errorf("malformed list2 line: %q", line)
		}

		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed instance index in %q: %w", line, err)
		}

		ints := make([]int64, 5)
		for i, f := range fields[2:7] {
			v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed field %d in %q: %w", i+3, line, err)
			}
			ints[i] = v
		}

		instances = append(instances, Instance{
			Index:          index,
			Title:          fields[1],
			TopWindow:      ints[0],
			BindWindow:     ints[1],
			AndroidStarted: ints[2] == 1,
			PID:            int(ints[3]),
			VBoxPID:        int(ints[4]),
		})
	}
	return instances, nil
}

// IsRunning reports whether the instance is up. Command errors count as
// not running.
func (c *Console) IsRunning(ctx context.Context, index int) bool {
	output, err := c.run(ctx, "isrunning", "--index", strconv.Itoa(index))
	if err != nil {
		return false
	}
	return output == "running"
}

// Launch starts the instance. It returns once ldconsole does, not once
// Android has booted.
func (c *Console) Launch(ctx context.Context, index int) error {
	if _, err := c.run(ctx, "launch", "--index", strconv.Itoa(index)); err != nil {
		return fmt.Errorf("failed to launch instance %d: %w", index, err)
	}
	return nil
}

// Quit shuts the instance down
func (c *Console) Quit(ctx context.Context, index int) error {
	if _, err := c.run(ctx, "quit", "--index", strconv.Itoa(index)); err != nil {
		return fmt.Errorf("failed to quit instance %d: %w", index, err)
	}
	return nil
}

// RunApp starts an installed package inside the instance
func (c *Console) RunApp(ctx context.Context, index int, packageName string) error {
	if _, err := c.run(ctx, "runapp", "--index", strconv.Itoa(index), "--packagename", packageName); err != nil {
		return fmt.Errorf("failed to run %s on instance %d: %w", packageName, index, err)
	}
	return nil
}

// Shell runs an Android shell command through ld
func (c *Console) Shell(ctx context.Context, index int, cmd string) (string, error) {
	output, err := c.runner.Run(ctx, c.ld, "-s", strconv.Itoa(index), cmd)
	if err != nil {
		return "", fmt.Errorf("shell command failed on instance %d: %w", index, err)
	}
	return strings.TrimSpace(string(output)), nil
}
