package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external program and returns its output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

// Run executes the program and returns stdout. On failure the combined
// output is folded into the returned error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s failed: %w, output: %s",
			name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()+stdout.String()))
	}

	return stdout.Bytes(), nil
}

// Func adapts a function to the Runner interface
type Func func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run calls f
func (f Func) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}
