// Package offline provides per-entity read/write facades that hide the
// online/offline branch from feature code: reads fall back to the local
// cache, writes either hit the server directly or are stored locally and
// queued for the next sync.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/models"
)

// SaveResult reports how a write was satisfied.
type SaveResult struct {
	// Queued is true when the write was stored locally and queued instead of
	// reaching the server directly.
	Queued bool
	// ID is the record's id after the write: server-issued when the write went
	// through, temporary when it was queued for a new record.
	ID string
}

// mirrorEntity stores the server's canonical copy of a record as SYNCED.
func mirrorEntity(ctx context.Context, records storage.RecordStore, e models.Entity) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", e.Collection(), err)
	}
	rec := &models.LocalRecord{
		Collection: e.Collection(),
		ID:         e.EntityID(),
		Key:        e.Key(),
		SyncStatus: models.StatusSynced,
		Data:       data,
	}
	return records.UpsertMany(ctx, e.Collection(), []*models.LocalRecord{rec})
}

// mirrorEntities refreshes the cache slice matching an online read. Records
// whose natural key is locally PENDING are skipped: the queued edit is the
// user's latest intent and must stay visible until it is pushed.
func mirrorEntities[E models.Entity](ctx context.Context, records storage.RecordStore, logger *slog.Logger, entities []E) {
	for _, e := range entities {
		existing, err := records.GetByKey(ctx, e.Collection(), e.Key())
		if err == nil && existing.SyncStatus == models.StatusPending {
			continue
		}
		if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
			logger.Warn("cache lookup failed during mirror", "collection", e.Collection(), "error", err)
			continue
		}
		if err := mirrorEntity(ctx, records, e); err != nil {
			logger.Warn("failed to mirror record",
				"collection", e.Collection(),
				"record_id", e.EntityID(),
				"error", err)
		}
	}
}

// storePending writes a record locally with status PENDING.
func storePending(ctx context.Context, records storage.RecordStore, e models.Entity) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", e.Collection(), err)
	}
	rec := &models.LocalRecord{
		Collection: e.Collection(),
		ID:         e.EntityID(),
		Key:        e.Key(),
		SyncStatus: models.StatusPending,
		Data:       data,
	}
	return records.UpsertMany(ctx, e.Collection(), []*models.LocalRecord{rec})
}

// decodeCached unmarshals a cached record into its entity type, logging and
// skipping corrupt rows rather than failing a whole listing.
func decodeCached[E any](rec *models.LocalRecord, logger *slog.Logger) (*E, bool) {
	var e E
	if err := json.Unmarshal(rec.Data, &e); err != nil {
		logger.Warn("skipping corrupt cached record",
			"collection", rec.Collection,
			"record_id", rec.ID,
			"error", err)
		return nil, false
	}
	return &e, true
}
