package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/models"
)

const recordColumns = "local_key, collection, id, natural_key, sync_status, data, updated_at"

// GetByKey is a point lookup by natural key.
func (s *Storage) GetByKey(ctx context.Context, collection models.Collection, key models.NaturalKey) (*models.LocalRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE collection = ? AND natural_key = ?",
		string(collection), string(key))
	return scanRecord(row)
}

// GetByID looks a record up by its current id.
func (s *Storage) GetByID(ctx context.Context, collection models.Collection, id string) (*models.LocalRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE collection = ? AND id = ?",
		string(collection), id)
	return scanRecord(row)
}

// List returns all records of a collection ordered by natural key.
func (s *Storage) List(ctx context.Context, collection models.Collection) ([]*models.LocalRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE collection = ? ORDER BY natural_key",
		string(collection))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.LocalRecord
	for rows.Next() {
		rec, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// UpsertMany inserts or replaces records by natural key in one transaction.
// The unique index on (collection, natural_key) is the conflict target, so a
// record whose id changed from temporary to server-issued still lands on the
// same row instead of duplicating under its key.
func (s *Storage) UpsertMany(ctx context.Context, collection models.Collection, records []*models.LocalRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertManyTx(ctx, tx, collection, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}
	return nil
}

// ReplaceCollection atomically swaps the full contents of a reference
// collection. All-or-nothing: an interruption mid-write rolls back to the
// previous contents.
func (s *Storage) ReplaceCollection(ctx context.Context, collection models.Collection, records []*models.LocalRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if !collection.IsReference() {
		return fmt.Errorf("collection %s is not a reference collection", collection)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = ?", string(collection)); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collection, err)
	}

	if err := upsertManyTx(ctx, tx, collection, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace of %s: %w", collection, err)
	}
	return nil
}

// ReassignID rewrites a temporary id to the server-issued one in the record
// row and in every queue item still referencing it, one transaction for both
// tables so no partially reconciled state is ever visible.
func (s *Storage) ReassignID(ctx context.Context, collection models.Collection, tempID, serverID string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	// Record row: new id, payload id field rewritten, marked SYNCED.
	var data string
	err = tx.QueryRowContext(ctx,
		"SELECT data FROM records WHERE collection = ? AND id = ?",
		string(collection), tempID).Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Record may have been replaced by a pull mirror already; queue rows
		// below still need the rewrite.
	case err != nil:
		return fmt.Errorf("failed to load record %s: %w", tempID, err)
	default:
		rewritten, err := rewriteEntityID(json.RawMessage(data), serverID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE records SET id = ?, sync_status = ?, data = ?, updated_at = ? WHERE collection = ? AND id = ?",
			serverID, string(models.StatusSynced), string(rewritten), now, string(collection), tempID); err != nil {
			return fmt.Errorf("failed to reassign record id: %w", err)
		}
	}

	// Queue rows: later queued mutations for the same record must replay
	// against the canonical id, and their payload snapshots carry the id too.
	rows, err := tx.QueryContext(ctx,
		"SELECT queue_id, payload FROM sync_queue WHERE record_id = ?", tempID)
	if err != nil {
		return fmt.Errorf("failed to load queue items for %s: %w", tempID, err)
	}

	type queuedRow struct {
		payload string
		queueID int64
	}
	var queued []queuedRow
	for rows.Next() {
		var r queuedRow
		if err := rows.Scan(&r.queueID, &r.payload); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan queue item: %w", err)
		}
		queued = append(queued, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate queue items: %w", err)
	}
	rows.Close()

	for _, r := range queued {
		rewritten, err := rewriteEntityID(json.RawMessage(r.payload), serverID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE sync_queue SET record_id = ?, payload = ? WHERE queue_id = ?",
			serverID, string(rewritten), r.queueID); err != nil {
			return fmt.Errorf("failed to reassign queue item %d: %w", r.queueID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit id reassignment: %w", err)
	}
	return nil
}

// SetStatus updates the sync status of the record with the given id.
func (s *Storage) SetStatus(ctx context.Context, collection models.Collection, id string, status models.SyncStatus) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE records SET sync_status = ?, updated_at = ? WHERE collection = ? AND id = ?",
		string(status), time.Now().UTC().Format(time.RFC3339Nano), string(collection), id)
	if err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrRecordNotFound
	}
	return nil
}

// Delete removes the record with the given id.
func (s *Storage) Delete(ctx context.Context, collection models.Collection, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND id = ?",
		string(collection), id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// CountPendingRecords counts records with status PENDING, across all collections
// when collection is empty.
func (s *Storage) CountPendingRecords(ctx context.Context, collection models.Collection) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var (
		count int
		err   error
	)
	if collection == "" {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM records WHERE sync_status = ?",
			string(models.StatusPending)).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM records WHERE collection = ? AND sync_status = ?",
			string(collection), string(models.StatusPending)).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count pending records: %w", err)
	}
	return count, nil
}

func upsertManyTx(ctx context.Context, tx *sql.Tx, collection models.Collection, records []*models.LocalRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, natural_key, sync_status, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, natural_key) DO UPDATE SET
			id = excluded.id,
			sync_status = excluded.sync_status,
			data = excluded.data,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.Key == "" {
			return fmt.Errorf("record %s/%s has empty natural key", collection, rec.ID)
		}
		updatedAt := rec.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			string(collection), rec.ID, string(rec.Key), string(rec.SyncStatus),
			string(rec.Data), updatedAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// rewriteEntityID replaces the id field inside a stored payload snapshot.
func rewriteEntityID(raw json.RawMessage, id string) (json.RawMessage, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode payload for id rewrite: %w", err)
	}
	fields["id"] = id
	rewritten, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rewritten payload: %w", err)
	}
	return rewritten, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*models.LocalRecord, error) {
	rec, err := scanRecordRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRecordNotFound
	}
	return rec, err
}

func scanRecordRows(row rowScanner) (*models.LocalRecord, error) {
	var (
		rec        models.LocalRecord
		collection string
		key        string
		status     string
		data       string
		updatedAt  string
	)
	if err := row.Scan(&rec.LocalKey, &collection, &rec.ID, &key, &status, &data, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	rec.Collection = models.Collection(collection)
	rec.Key = models.NaturalKey(key)
	rec.SyncStatus = models.SyncStatus(status)
	rec.Data = json.RawMessage(data)

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record timestamp: %w", err)
	}
	rec.UpdatedAt = ts
	return &rec, nil
}
