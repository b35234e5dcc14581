package cli

import (
	"context"
	"flag"
	"fmt"
)

// RunReset drops all local data and reinitializes the store. With queued
// mutations present this is an unrecoverable data-loss path, so it refuses
// unless forced and double-confirms even then.
func (c *Cli) RunReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	force := fs.Bool("force", false, "Reset even when unsynced changes exist")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pending, err := c.queue.CountPending(ctx)
	if err != nil {
		return err
	}
	failed, err := c.queue.CountFailed(ctx)
	if err != nil {
		return err
	}
	unsynced := pending + failed

	if unsynced > 0 && !*force {
		return fmt.Errorf("%d unsynced changes would be lost; sync first or pass -force", unsynced)
	}
	if unsynced > 0 {
		if !confirm(fmt.Sprintf("Permanently discard %d unsynced changes and all cached data?", unsynced)) {
			c.printf("Aborted\n")
			return nil
		}
	} else if !confirm("Drop all cached data?") {
		c.printf("Aborted\n")
		return nil
	}

	if err := c.store.Reinit(ctx); err != nil {
		return err
	}
	c.printf("Local store reinitialized\n")
	return nil
}
