package models

import (
	"encoding/json"
	"time"
)

// QueueOperation is the kind of mutation intent held in the queue.
type QueueOperation string

const (
	OpCreate QueueOperation = "CREATE"
	OpUpdate QueueOperation = "UPDATE"
	OpDelete QueueOperation = "DELETE"
)

// QueueStatus is the lifecycle state of a queue item.
type QueueStatus string

const (
	QueuePending QueueStatus = "PENDING"
	QueueFailed  QueueStatus = "FAILED"
)

// QueueItem is one pending mutation intent. QueueID is assigned by the store
// and strictly increases with insertion order; items for the same RecordID are
// replayed in QueueID order so that offline edits converge to the same final
// state as if they had been applied live.
type QueueItem struct {
	Timestamp  time.Time       `json:"timestamp"`
	Collection Collection      `json:"collection"`
	Operation  QueueOperation  `json:"operation"`
	RecordID   string          `json:"record_id"`
	Payload    json.RawMessage `json:"payload"`
	Status     QueueStatus     `json:"status"`
	LastError  string          `json:"last_error,omitempty"`
	Retries    int             `json:"retries"`
	QueueID    int64           `json:"queue_id"`
}

// SyncMeta tracks the pull watermark for one reference collection.
type SyncMeta struct {
	LastSync    time.Time  `json:"last_sync"`
	Collection  Collection `json:"collection"`
	RecordCount int        `json:"record_count"`
}
