package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/models"
)

// GetMeta returns the pull watermark for a collection.
func (s *Storage) GetMeta(ctx context.Context, collection models.Collection) (*models.SyncMeta, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var (
		meta     models.SyncMeta
		col      string
		lastSync string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT collection, last_sync, record_count FROM sync_meta WHERE collection = ?",
		string(collection)).Scan(&col, &lastSync, &meta.RecordCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync meta: %w", err)
	}

	meta.Collection = models.Collection(col)
	ts, err := time.Parse(time.RFC3339Nano, lastSync)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sync meta timestamp: %w", err)
	}
	meta.LastSync = ts
	return &meta, nil
}

// SaveMeta inserts or replaces the watermark entry.
func (s *Storage) SaveMeta(ctx context.Context, meta *models.SyncMeta) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_meta (collection, last_sync, record_count)
		VALUES (?, ?, ?)
		ON CONFLICT (collection) DO UPDATE SET
			last_sync = excluded.last_sync,
			record_count = excluded.record_count`,
		string(meta.Collection), meta.LastSync.UTC().Format(time.RFC3339Nano), meta.RecordCount); err != nil {
		return fmt.Errorf("failed to save sync meta: %w", err)
	}
	return nil
}

// AllMeta returns every watermark entry ordered by collection.
func (s *Storage) AllMeta(ctx context.Context) ([]*models.SyncMeta, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT collection, last_sync, record_count FROM sync_meta ORDER BY collection")
	if err != nil {
		return nil, fmt.Errorf("failed to list sync meta: %w", err)
	}
	defer rows.Close()

	var metas []*models.SyncMeta
	for rows.Next() {
		var (
			meta     models.SyncMeta
			col      string
			lastSync string
		)
		if err := rows.Scan(&col, &lastSync, &meta.RecordCount); err != nil {
			return nil, fmt.Errorf("failed to scan sync meta: %w", err)
		}
		meta.Collection = models.Collection(col)
		ts, err := time.Parse(time.RFC3339Nano, lastSync)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sync meta timestamp: %w", err)
		}
		meta.LastSync = ts
		metas = append(metas, &meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync meta: %w", err)
	}
	return metas, nil
}
