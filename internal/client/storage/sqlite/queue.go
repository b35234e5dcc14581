package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/models"
)

const queueColumns = "queue_id, collection, operation, record_id, payload, created_at, status, retries, last_error"

// Enqueue appends a PENDING item and returns its assigned queue id.
func (s *Storage) Enqueue(ctx context.Context, item *models.QueueItem) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	createdAt := item.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_queue (collection, operation, record_id, payload, created_at, status, retries, last_error)
		VALUES (?, ?, ?, ?, ?, ?, 0, '')`,
		string(item.Collection), string(item.Operation), item.RecordID,
		string(item.Payload), createdAt.Format(time.RFC3339Nano), string(models.QueuePending))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	queueID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue id: %w", err)
	}
	item.QueueID = queueID
	item.Status = models.QueuePending
	item.Timestamp = createdAt
	return queueID, nil
}

// Pending returns all PENDING items in queue id order, the replay order.
func (s *Storage) Pending(ctx context.Context) ([]*models.QueueItem, error) {
	return s.listQueue(ctx, models.QueuePending)
}

// Failed returns all FAILED items in queue id order.
func (s *Storage) Failed(ctx context.Context) ([]*models.QueueItem, error) {
	return s.listQueue(ctx, models.QueueFailed)
}

func (s *Storage) listQueue(ctx context.Context, status models.QueueStatus) ([]*models.QueueItem, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+queueColumns+" FROM sync_queue WHERE status = ? ORDER BY queue_id",
		string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	var items []*models.QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue: %w", err)
	}
	return items, nil
}

// MarkSucceeded deletes a confirmed item from the queue.
func (s *Storage) MarkSucceeded(ctx context.Context, queueID int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM sync_queue WHERE queue_id = ?", queueID)
	if err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrQueueItemNotFound
	}
	return nil
}

// MarkFailed records a failed attempt; past the retry budget the item flips
// to FAILED and is excluded from automatic replay.
func (s *Storage) MarkFailed(ctx context.Context, queueID int64, reason string, maxRetries int) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var retries int
	err = tx.QueryRowContext(ctx,
		"SELECT retries FROM sync_queue WHERE queue_id = ?", queueID).Scan(&retries)
	if err == sql.ErrNoRows {
		return storage.ErrQueueItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load queue item: %w", err)
	}

	retries++
	status := models.QueuePending
	if retries > maxRetries {
		status = models.QueueFailed
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE sync_queue SET retries = ?, last_error = ?, status = ? WHERE queue_id = ?",
		retries, reason, string(status), queueID); err != nil {
		return fmt.Errorf("failed to mark queue item failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit failure mark: %w", err)
	}
	return nil
}

// ResetFailed flips all FAILED items back to PENDING with retries reset.
func (s *Storage) ResetFailed(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE sync_queue SET status = ?, retries = 0, last_error = '' WHERE status = ?",
		string(models.QueuePending), string(models.QueueFailed))
	if err != nil {
		return 0, fmt.Errorf("failed to reset failed items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reset items: %w", err)
	}
	return int(n), nil
}

// ClearFailed removes all FAILED items.
func (s *Storage) ClearFailed(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sync_queue WHERE status = ?", string(models.QueueFailed))
	if err != nil {
		return 0, fmt.Errorf("failed to clear failed items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared items: %w", err)
	}
	return int(n), nil
}

// CountPending counts PENDING items.
func (s *Storage) CountPending(ctx context.Context) (int, error) {
	return s.countQueue(ctx, models.QueuePending)
}

// CountFailed counts FAILED items.
func (s *Storage) CountFailed(ctx context.Context) (int, error) {
	return s.countQueue(ctx, models.QueueFailed)
}

func (s *Storage) countQueue(ctx context.Context, status models.QueueStatus) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sync_queue WHERE status = ?", string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queue items: %w", err)
	}
	return count, nil
}

func scanQueueItem(row rowScanner) (*models.QueueItem, error) {
	var (
		item       models.QueueItem
		collection string
		operation  string
		payload    string
		createdAt  string
		status     string
	)
	if err := row.Scan(&item.QueueID, &collection, &operation, &item.RecordID,
		&payload, &createdAt, &status, &item.Retries, &item.LastError); err != nil {
		return nil, fmt.Errorf("failed to scan queue item: %w", err)
	}
	item.Collection = models.Collection(collection)
	item.Operation = models.QueueOperation(operation)
	item.Payload = json.RawMessage(payload)
	item.Status = models.QueueStatus(status)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse queue timestamp: %w", err)
	}
	item.Timestamp = ts
	return &item, nil
}
