package cli

import (
	"context"
	"fmt"
	"time"
)

// RunQueue inspects and manages the mutation queue.
// Subcommands: list (default), retry, clear-failed.
func (c *Cli) RunQueue(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		return c.queueList(ctx)
	case "retry":
		n, err := c.queue.ResetFailed(ctx)
		if err != nil {
			return err
		}
		c.printf("Requeued %d failed changes; run 'shulesync sync' to push them\n", n)
		return nil
	case "clear-failed":
		failed, err := c.queue.CountFailed(ctx)
		if err != nil {
			return err
		}
		if failed == 0 {
			c.printf("No failed changes to clear\n")
			return nil
		}
		// Dropping failed mutations is unrecoverable data loss.
		if !confirm(fmt.Sprintf("Permanently discard %d failed changes?", failed)) {
			c.printf("Aborted\n")
			return nil
		}
		n, err := c.queue.ClearFailed(ctx)
		if err != nil {
			return err
		}
		c.printf("Discarded %d failed changes\n", n)
		return nil
	default:
		return fmt.Errorf("unknown queue subcommand: %s (want list, retry or clear-failed)", sub)
	}
}

func (c *Cli) queueList(ctx context.Context) error {
	pending, err := c.queue.Pending(ctx)
	if err != nil {
		return err
	}
	failed, err := c.queue.Failed(ctx)
	if err != nil {
		return err
	}

	if len(pending) == 0 && len(failed) == 0 {
		c.printf("Queue is empty\n")
		return nil
	}

	if len(pending) > 0 {
		c.printf("Pending:\n")
		for _, item := range pending {
			c.printf("  #%-4d %-10s %-6s %s (%s)\n",
				item.QueueID, item.Collection, item.Operation, item.RecordID,
				item.Timestamp.Local().Format(time.RFC822))
		}
	}
	if len(failed) > 0 {
		c.printf("Failed:\n")
		for _, item := range failed {
			c.printf("  #%-4d %-10s %-6s %s after %d attempts: %s\n",
				item.QueueID, item.Collection, item.Operation, item.RecordID,
				item.Retries, item.LastError)
		}
	}
	return nil
}
