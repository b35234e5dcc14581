package storage

import (
	"context"

	"github.com/mwalimu/shulesync/internal/models"
)

// RecordStore is the local record cache. One record per (collection, natural
// key) is enforced by the implementation; every multi-row write is a single
// transaction, so a crash mid-write leaves the pre-write state visible.
type RecordStore interface {
	// GetByKey is a point lookup by natural key.
	// Returns ErrRecordNotFound on miss.
	GetByKey(ctx context.Context, collection models.Collection, key models.NaturalKey) (*models.LocalRecord, error)

	// GetByID looks a record up by its current id (temporary or server-issued).
	// Returns ErrRecordNotFound on miss.
	GetByID(ctx context.Context, collection models.Collection, id string) (*models.LocalRecord, error)

	// List returns all records of a collection ordered by natural key.
	List(ctx context.Context, collection models.Collection) ([]*models.LocalRecord, error)

	// UpsertMany inserts or replaces records by natural key in one transaction.
	UpsertMany(ctx context.Context, collection models.Collection, records []*models.LocalRecord) error

	// ReplaceCollection atomically swaps the full contents of a read-only
	// reference collection, as done after a pull.
	ReplaceCollection(ctx context.Context, collection models.Collection, records []*models.LocalRecord) error

	// ReassignID rewrites a temporary id to the server-issued one everywhere:
	// the record row (marked SYNCED) and any queue items still referencing the
	// temporary id, in one transaction.
	ReassignID(ctx context.Context, collection models.Collection, tempID, serverID string) error

	// SetStatus updates the sync status of the record with the given id.
	SetStatus(ctx context.Context, collection models.Collection, id string, status models.SyncStatus) error

	// Delete removes the record with the given id. Missing records are not an
	// error; a queued DELETE may race a pull refresh.
	Delete(ctx context.Context, collection models.Collection, id string) error

	// CountPendingRecords counts records with status PENDING. An empty collection
	// counts across all collections.
	CountPendingRecords(ctx context.Context, collection models.Collection) (int, error)
}
