package cli

import (
	"context"
	"time"

	"github.com/mwalimu/shulesync/internal/models"
)

// RunStatus prints connectivity, session state, queue counts and per-collection
// watermarks, plus the server-side aggregate when reachable.
func (c *Cli) RunStatus(ctx context.Context) error {
	online := c.api.Ping(ctx)
	if online {
		c.printf("Connectivity:  online\n")
	} else {
		c.printf("Connectivity:  offline\n")
	}

	authenticated, err := c.auth.IsAuthenticated(ctx)
	if err != nil {
		return err
	}
	if authenticated {
		c.printf("Session:       active\n")
	} else {
		c.printf("Session:       none (run 'shulesync login')\n")
	}

	pending, err := c.queue.CountPending(ctx)
	if err != nil {
		return err
	}
	failed, err := c.queue.CountFailed(ctx)
	if err != nil {
		return err
	}
	c.printf("Queue:         %d pending, %d failed\n", pending, failed)
	if failed > 0 {
		c.printf("               run 'shulesync queue retry' to retry failed changes\n")
	}

	pendingRecords, err := c.store.CountPendingRecords(ctx, "")
	if err != nil {
		return err
	}
	c.printf("Local records: %d awaiting upload\n", pendingRecords)

	metas, err := c.meta.AllMeta(ctx)
	if err != nil {
		return err
	}
	if len(metas) > 0 {
		c.printf("Reference data:\n")
		for _, m := range metas {
			c.printf("  %-10s %6d records, pulled %s\n",
				m.Collection, m.RecordCount, m.LastSync.Local().Format(time.RFC822))
		}
	} else {
		c.printf("Reference data: never pulled\n")
	}

	if online && authenticated {
		token, err := c.auth.AccessToken(ctx)
		if err == nil {
			if status, err := c.api.SyncStatus(ctx, token); err == nil {
				c.printf("Server:\n")
				for _, col := range models.AllCollections {
					if count, ok := status.Collections[string(col)]; ok {
						c.printf("  %-10s %6d records\n", col, count)
					}
				}
			}
		}
	}

	return nil
}
