package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/iudanet/schoolsync/internal/client/network"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")
	c.io.Println()

	status := c.connectivity(ctx)
	c.io.Printf("Server:     %s (%s)\n", c.serverURL, status)

	counts, err := c.engine.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count queued mutations: %w", err)
	}
	c.io.Printf("Pending:    %d\n", counts.Pending)
	c.io.Printf("Failed:     %d\n", counts.Failed)

	if c.metadata != nil {
		last, err := c.metadata.GetLastSync(ctx)
		switch {
		case err != nil:
			c.io.Printf("Last sync:  unknown (%v)\n", err)
		case last.IsZero():
			c.io.Println("Last sync:  never")
		default:
			c.io.Printf("Last sync:  %s\n", humanize.RelTime(last, c.clock(), "ago", "from now"))
		}
	}

	if err := c.printTokenStatus(ctx); err != nil {
		return err
	}

	c.io.Println()
	switch {
	case counts.Failed > 0:
		c.io.Printf("⚠️  %s failed; run 'schoolsync retry' or 'schoolsync discard'.\n",
			pluralize(counts.Failed, "mutation"))
	case counts.Pending > 0 && status == network.StatusOnline:
		c.io.Printf("⚠️  %s waiting; run 'schoolsync sync'.\n", pluralize(counts.Pending, "mutation"))
	case counts.Pending > 0:
		c.io.Printf("%s will be sent when the server is reachable.\n", pluralize(counts.Pending, "mutation"))
	default:
		c.io.Println("✓ All writes reached the server")
	}
	return nil
}

func (c *Cli) printTokenStatus(ctx context.Context) error {
	authData, err := c.storedAuth(ctx)
	if err != nil {
		return err
	}
	if authData == nil || authData.AccessToken == "" {
		c.io.Println("Token:      not set (run 'schoolsync token set')")
		return nil
	}

	label := "set"
	if authData.Subject != "" {
		label = "set for " + authData.Subject
	}
	if authData.ExpiresAt == 0 {
		c.io.Printf("Token:      %s, no expiry\n", label)
		return nil
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	if !expiresAt.After(c.clock()) {
		c.io.Printf("Token:      %s, ⚠️  expired %s\n", label, humanize.RelTime(expiresAt, c.clock(), "ago", "from now"))
		return nil
	}
	c.io.Printf("Token:      %s, expires %s\n", label, humanize.RelTime(expiresAt, c.clock(), "ago", "from now"))
	return nil
}
