package storage

import "errors"

// Common client storage errors
var (
	// ErrRecordNotFound indicates that no record exists for the given lookup
	ErrRecordNotFound = errors.New("record not found")

	// ErrQueueItemNotFound indicates that the queue item does not exist
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrAuthNotFound indicates that no session data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrStoreCorrupt indicates the local store could not be opened or
	// migrated; callers may attempt Reinit as a best-effort recovery
	ErrStoreCorrupt = errors.New("local store is corrupt")
)
