package cli

import (
	"context"
	"errors"

	syncpkg "github.com/mwalimu/shulesync/internal/client/sync"
)

// RunSync pushes the queue and then pulls fresh reference data, printing
// progress from the engine's event stream.
func (c *Cli) RunSync(ctx context.Context) error {
	token, err := c.auth.AccessToken(ctx)
	if err != nil {
		return err
	}

	events, cancel := c.engine.Events().Subscribe()
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			switch ev.Type {
			case syncpkg.EventSyncProgress:
				c.printf("\rUploading %d/%d...", ev.Current, ev.Total)
			case syncpkg.EventSyncComplete:
				if ev.Stats != nil && ev.Stats.Processed > 0 {
					c.printf("\n")
				}
			}
		}
	}()

	stats, err := c.engine.Push(ctx, token)
	cancel()
	<-done

	switch {
	case errors.Is(err, syncpkg.ErrSyncInProgress):
		c.printf("A sync is already running; try again in a moment\n")
		return nil
	case errors.Is(err, syncpkg.ErrOffline):
		c.printf("Offline; changes stay queued until connectivity returns\n")
		return nil
	case err != nil:
		return err
	}

	if stats.Processed == 0 {
		c.printf("Nothing to upload\n")
	} else {
		c.printf("Uploaded %d changes (%d failed)\n", stats.Succeeded, stats.Failed)
	}

	pullStats, err := c.engine.Pull(ctx, token, nil, syncpkg.PullOptions{})
	if err != nil {
		// The push already succeeded; stale reference data is worth a warning,
		// not a failed command.
		c.printf("Reference data refresh failed: %v\n", err)
		return nil
	}
	for col, n := range pullStats.Counts {
		c.printf("Refreshed %s: %d records\n", col, n)
	}
	return nil
}
