package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the synchronization state of one local record.
type SyncStatus string

const (
	StatusSynced   SyncStatus = "SYNCED"
	StatusPending  SyncStatus = "PENDING"
	StatusConflict SyncStatus = "CONFLICT"
	StatusError    SyncStatus = "ERROR"
)

// NaturalKey is the domain-meaningful compound key of a record, encoded as a
// single string. At most one record per (collection, natural key) may exist in
// the local store regardless of how the record's id changes over its life.
type NaturalKey string

// LocalRecord wraps one domain entity as persisted in the local store.
//
// ID is either a server-issued identifier or a temporary one assigned when the
// record was created offline; LocalKey is the store-private row identity and is
// stable even while ID changes during reconciliation.
type LocalRecord struct {
	UpdatedAt  time.Time       `json:"updated_at"`
	Collection Collection      `json:"collection"`
	ID         string          `json:"id"`
	Key        NaturalKey      `json:"natural_key"`
	SyncStatus SyncStatus      `json:"sync_status"`
	Data       json.RawMessage `json:"data"`
	LocalKey   int64           `json:"local_key"`
}

const tempIDPrefix = "temp_"

// NewTempID returns a fresh temporary identifier for a record created offline.
func NewTempID() string {
	return tempIDPrefix + uuid.New().String()
}

// IsTempID reports whether id is a locally assigned temporary identifier.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
