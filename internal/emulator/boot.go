package emulator

import (
	"context"
	"fmt"
	"time"

	"jordanella.com/jianghu-auto/internal/logging"
)

// Booter is the subset of Console that Boot needs
type Booter interface {
	Launch(ctx context.Context, index int) error
	List(ctx context.Context) ([]Instance, error)
	IsRunning(ctx context.Context, index int) bool
	RunApp(ctx context.Context, index int, packageName string) error
}

// Boot launches the instance, waits until it reports running, then starts
// the game package. It only gives up when ctx is done.
func Boot(ctx context.Context, console Booter, index int, packageName string, poll time.Duration, logger *logging.Logger) error {
	logger.Info(fmt.Sprintf("Launching emulator instance %d", index))
	if err := console.Launch(ctx, index); err != nil {
		return err
	}

	if instances, err := console.List(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Could not list instances: %v", err))
	} else {
		logger.Info(fmt.Sprintf("Emulator instance count: %d", len(instances)))
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for !console.IsRunning(ctx, index) {
		logger.Info("Waiting for emulator to start...")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	logger.Info(fmt.Sprintf("Emulator instance %d is running, starting %s", index, packageName))
	return console.RunApp(ctx, index, packageName)
}
