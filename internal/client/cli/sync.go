package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/schoolsync/internal/client/indicator"
	"github.com/iudanet/schoolsync/internal/client/network"
	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/models"
)

func (c *Cli) runSync(ctx context.Context, force bool) error {
	c.io.Println("=== Synchronization ===")

	counts, err := c.engine.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count queued mutations: %w", err)
	}
	if counts.Total() == 0 {
		c.io.Println("✓ Nothing to sync, queue is empty")
		return nil
	}

	// Без сети проход только пометит все записи failed
	if !force && c.connectivity(ctx) == network.StatusOffline {
		return fmt.Errorf("server %s is unreachable, %s stay queued (use --force to try anyway)",
			c.serverURL, pluralize(counts.Total(), "mutation"))
	}

	ind := c.newIndicator()
	return c.replay(ctx, ind, c.engine.Sync)
}

func (c *Cli) runRetry(ctx context.Context) error {
	c.io.Println("=== Retry ===")
	ind := c.newIndicator()
	return c.replay(ctx, ind, ind.Retry)
}

// replay runs one pass with the indicator following its progress
func (c *Cli) replay(ctx context.Context, ind *indicator.Indicator, pass func(context.Context) (models.SyncProgress, error)) error {
	detach := ind.Attach(c.tracker, nil)
	result, err := pass(ctx)
	detach()
	ind.Close()

	if errors.Is(err, syncengine.ErrSyncInProgress) {
		return errors.New("a sync pass is already running")
	}
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	c.io.Printf("Processed: %d\n", result.Processed)
	c.io.Printf("Succeeded: %d\n", result.Succeeded)
	c.io.Printf("Failed:    %d\n", result.Failed)

	if result.Failed > 0 {
		c.io.Println()
		c.io.Println("⚠️  Failed mutations stay in the queue.")
		c.io.Println("Run 'schoolsync queue failed' to inspect them, 'schoolsync retry' to try again")
		c.io.Println("or 'schoolsync discard' to drop them.")
		return nil
	}
	c.io.Println("✓ All queued mutations reached the server")
	return nil
}

func (c *Cli) runDiscard(ctx context.Context, yes bool) error {
	counts, err := c.engine.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count queued mutations: %w", err)
	}
	if counts.Failed == 0 {
		c.io.Println("No failed mutations to discard.")
		return nil
	}

	if !yes {
		answer, err := c.io.ReadInput(fmt.Sprintf("Discard %s? This cannot be undone [y/N]: ",
			pluralize(counts.Failed, "failed mutation")))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			c.io.Println("Cancelled.")
			return nil
		}
	}

	ind := c.newIndicator()
	removed, err := ind.DiscardFailed(ctx)
	ind.Close()
	if errors.Is(err, syncengine.ErrSyncInProgress) {
		return errors.New("cannot discard while a sync pass is running")
	}
	if err != nil {
		return fmt.Errorf("failed to discard: %w", err)
	}

	c.io.Printf("✓ Discarded %s\n", pluralize(removed, "failed mutation"))
	return nil
}
