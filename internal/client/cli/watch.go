package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrWatcherRunning is returned when another watch process holds the lock.
var ErrWatcherRunning = errors.New("another schoolsync watch is already running")

// runWatch probes the server until ctx ends and replays the queue each time
// the connection comes back.
func (c *Cli) runWatch(ctx context.Context) error {
	if c.observer == nil {
		return errors.New("network observer is not configured")
	}

	lock := flock.New(c.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrWatcherRunning, c.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.log().Warn("Failed to release watch lock", "error", err)
		}
	}()

	ind := c.newIndicator()
	detach := ind.Attach(c.tracker, c.observer)
	defer ind.Close()
	defer detach()

	c.io.Printf("Watching %s (Ctrl+C to stop)\n", c.serverURL)
	ind.Refresh(ctx)

	if err := c.observer.Start(ctx); err != nil {
		return err
	}
	defer c.observer.Stop()

	<-ctx.Done()
	c.log().Info("Watch stopped")
	return nil
}
