package storage

import (
	"context"

	"github.com/mwalimu/shulesync/internal/models"
)

// QueueStore persists the ordered set of pending mutation intents. QueueID is
// assigned on insert and strictly increases; Pending returns items in that
// order, which is the replay order during push.
type QueueStore interface {
	// Enqueue appends a PENDING item and returns its assigned queue id.
	Enqueue(ctx context.Context, item *models.QueueItem) (int64, error)

	// Pending returns all PENDING items ordered by queue id.
	Pending(ctx context.Context) ([]*models.QueueItem, error)

	// Failed returns all FAILED items ordered by queue id.
	Failed(ctx context.Context) ([]*models.QueueItem, error)

	// MarkSucceeded deletes a confirmed item from the queue.
	MarkSucceeded(ctx context.Context, queueID int64) error

	// MarkFailed records a failed attempt. Once retries exceeds maxRetries the
	// item flips to FAILED and is excluded from automatic replay until the
	// user resets it.
	MarkFailed(ctx context.Context, queueID int64, reason string, maxRetries int) error

	// ResetFailed flips all FAILED items back to PENDING with retries reset.
	// Returns the number of items reset.
	ResetFailed(ctx context.Context) (int, error)

	// ClearFailed removes all FAILED items. This is the only path that drops
	// queue items without a confirmed server success.
	ClearFailed(ctx context.Context) (int, error)

	// CountPending counts PENDING items.
	CountPending(ctx context.Context) (int, error)

	// CountFailed counts FAILED items.
	CountFailed(ctx context.Context) (int, error)
}
