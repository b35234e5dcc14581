package api

import (
	"encoding/json"
	"time"
)

// PushOperation is one queued mutation submitted to POST /sync/push.
type PushOperation struct {
	Timestamp  time.Time       `json:"timestamp"`
	Collection string          `json:"collection"`
	Operation  string          `json:"operation"` // CREATE | UPDATE | DELETE
	RecordID   string          `json:"recordId"`  // server-issued or temp_<uuid>
	Data       json.RawMessage `json:"data"`
}

// PushRequest is the batch body for POST /sync/push. The server applies
// operations in the submitted order and never reorders the batch.
type PushRequest struct {
	Operations []PushOperation `json:"operations"`
}

// PushResult is the per-operation outcome reported by the server. Results are
// correlated with operations by RecordID, not by array index.
type PushResult struct {
	RecordID string `json:"recordId"`
	ServerID string `json:"serverId,omitempty"` // set on successful CREATE of a temp id
	Error    string `json:"error,omitempty"`
	Success  bool   `json:"success"`
}

// PushResponse is the aggregate answer to POST /sync/push.
type PushResponse struct {
	Results   []PushResult `json:"results"`
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// PullRequest is the body for POST /sync/pull. LastSync is a watermark hint:
// the server may return only records changed since then, or the full set.
type PullRequest struct {
	LastSync     *time.Time `json:"lastSync,omitempty"`
	ClassID      string     `json:"classId,omitempty"`
	Collections  []string   `json:"collections"`
	AcademicYear int        `json:"academicYear,omitempty"`
}

// PullResponse carries fresh reference data keyed by collection name.
type PullResponse struct {
	SyncedAt time.Time                    `json:"syncedAt"`
	Data     map[string][]json.RawMessage `json:"data"`
	Counts   map[string]int               `json:"counts"`
}

// SyncStatusResponse is the display-only aggregate from GET /sync/status.
type SyncStatusResponse struct {
	ServerTime  time.Time      `json:"serverTime"`
	Collections map[string]int `json:"collections"`
}
