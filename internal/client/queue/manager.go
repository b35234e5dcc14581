// Package queue maintains the ordered set of pending mutation intents.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/models"
)

// DefaultMaxRetries is the retry budget before an item flips to FAILED and
// waits for the user to act.
const DefaultMaxRetries = 3

// Manager provides the queue operations used by accessors, CLI and the sync
// engine. Items are deliberately not deduplicated: several updates to one
// record stay as separate items and converge because replay follows queue id
// order.
type Manager struct {
	store      storage.QueueStore
	logger     *slog.Logger
	maxRetries int
}

// NewManager creates a queue manager. maxRetries <= 0 selects the default
// budget.
func NewManager(store storage.QueueStore, maxRetries int, logger *slog.Logger) *Manager {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Manager{
		store:      store,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// MaxRetries returns the configured retry budget.
func (m *Manager) MaxRetries() int {
	return m.maxRetries
}

// Enqueue appends a PENDING mutation with a snapshot of the record data at
// enqueue time.
func (m *Manager) Enqueue(ctx context.Context, collection models.Collection, op models.QueueOperation, recordID string, payload any) (*models.QueueItem, error) {
	if !collection.Valid() {
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}

	snapshot, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot payload: %w", err)
	}

	item := &models.QueueItem{
		Collection: collection,
		Operation:  op,
		RecordID:   recordID,
		Payload:    snapshot,
		Timestamp:  time.Now().UTC(),
	}
	if _, err := m.store.Enqueue(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to enqueue %s %s: %w", op, recordID, err)
	}

	m.logger.Debug("queued mutation",
		"queue_id", item.QueueID,
		"collection", collection,
		"operation", op,
		"record_id", recordID)
	return item, nil
}

// Pending returns all PENDING items in replay order.
func (m *Manager) Pending(ctx context.Context) ([]*models.QueueItem, error) {
	return m.store.Pending(ctx)
}

// Failed returns all FAILED items.
func (m *Manager) Failed(ctx context.Context) ([]*models.QueueItem, error) {
	return m.store.Failed(ctx)
}

// MarkSucceeded removes a confirmed item from the queue.
func (m *Manager) MarkSucceeded(ctx context.Context, queueID int64) error {
	return m.store.MarkSucceeded(ctx, queueID)
}

// MarkFailed records a failed attempt against the retry budget.
func (m *Manager) MarkFailed(ctx context.Context, queueID int64, reason string) error {
	return m.store.MarkFailed(ctx, queueID, reason, m.maxRetries)
}

// ResetFailed flips every FAILED item back to PENDING for the next sync.
func (m *Manager) ResetFailed(ctx context.Context) (int, error) {
	n, err := m.store.ResetFailed(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.Info("reset failed queue items", "count", n)
	}
	return n, nil
}

// ClearFailed drops every FAILED item. Explicit user action only; this is the
// single path that discards mutations without server confirmation.
func (m *Manager) ClearFailed(ctx context.Context) (int, error) {
	n, err := m.store.ClearFailed(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.Warn("cleared failed queue items", "count", n)
	}
	return n, nil
}

// CountPending counts PENDING items.
func (m *Manager) CountPending(ctx context.Context) (int, error) {
	return m.store.CountPending(ctx)
}

// CountFailed counts FAILED items.
func (m *Manager) CountFailed(ctx context.Context) (int, error) {
	return m.store.CountFailed(ctx)
}
