package storage

import (
	"context"

	"github.com/mwalimu/shulesync/internal/models"
)

// MetaStore tracks the per-collection pull watermark.
type MetaStore interface {
	// GetMeta returns the watermark entry for a collection.
	// Returns ErrRecordNotFound if the collection was never pulled.
	GetMeta(ctx context.Context, collection models.Collection) (*models.SyncMeta, error)

	// SaveMeta inserts or replaces the watermark entry.
	SaveMeta(ctx context.Context, meta *models.SyncMeta) error

	// AllMeta returns every watermark entry, ordered by collection.
	AllMeta(ctx context.Context) ([]*models.SyncMeta, error)
}
