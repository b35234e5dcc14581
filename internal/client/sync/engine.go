// Package sync implements the two-phase synchronization protocol: push drains
// the mutation queue as one batch, pull refreshes read-only reference data.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/queue"
	"github.com/mwalimu/shulesync/internal/client/storage"
	"github.com/mwalimu/shulesync/internal/models"
	"github.com/mwalimu/shulesync/internal/validation"
	"github.com/mwalimu/shulesync/pkg/api"
)

var (
	// ErrSyncInProgress is returned when a push or pull is already running.
	// Concurrent triggers are rejected, not queued; callers retry after the
	// running cycle completes.
	ErrSyncInProgress = errors.New("already syncing")

	// ErrOffline is returned when the connectivity precondition fails. No
	// state is mutated.
	ErrOffline = errors.New("offline")
)

//go:generate go tool moq -out probe_mock.go . Probe

// Probe reports current connectivity.
type Probe interface {
	Online(ctx context.Context) bool
}

// PushStats aggregates one push cycle.
type PushStats struct {
	Processed int
	Succeeded int
	Failed    int
}

// PullStats aggregates one pull cycle.
type PullStats struct {
	SyncedAt time.Time
	Counts   map[models.Collection]int
	Skipped  int // records rejected by boundary validation
}

// PullOptions scope a pull request.
type PullOptions struct {
	ClassID      string
	AcademicYear int
}

// Engine orchestrates push and pull against the remote server. All access to
// the local store goes through the injected store interfaces so that the
// natural-key invariant holds no matter which execution context (interactive
// client or background agent) triggers a sync.
type Engine struct {
	api     httpclient.SyncAPI
	records storage.RecordStore
	queue   *queue.Manager
	meta    storage.MetaStore
	probe   Probe
	bus     *Bus
	logger  *slog.Logger
	mu      sync.Mutex
}

// NewEngine creates a sync engine.
func NewEngine(apiClient httpclient.SyncAPI, records storage.RecordStore, q *queue.Manager, meta storage.MetaStore, probe Probe, logger *slog.Logger) *Engine {
	return &Engine{
		api:     apiClient,
		records: records,
		queue:   q,
		meta:    meta,
		probe:   probe,
		bus:     NewBus(),
		logger:  logger,
	}
}

// Events returns the engine's event bus.
func (e *Engine) Events() *Bus {
	return e.bus
}

// PendingCount returns the number of queued mutations awaiting push.
func (e *Engine) PendingCount(ctx context.Context) (int, error) {
	return e.queue.CountPending(ctx)
}

// Push drains the mutation queue as one batch request.
//
// A single item's failure never aborts the batch; only a transport failure
// (no response at all) does, and that leaves the queue untouched for the next
// trigger. Per-item results are matched by record id, not array position.
func (e *Engine) Push(ctx context.Context, accessToken string) (*PushStats, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	if !e.probe.Online(ctx) {
		return nil, ErrOffline
	}

	items, err := e.queue.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending queue: %w", err)
	}

	stats := &PushStats{Processed: len(items)}
	if len(items) == 0 {
		e.bus.Publish(Event{Type: EventSyncComplete, Stats: stats})
		return stats, nil
	}

	e.logger.Info("starting push", "pending", len(items))
	e.bus.Publish(Event{Type: EventSyncStarted, Total: len(items)})

	ops := make([]api.PushOperation, 0, len(items))
	for _, item := range items {
		ops = append(ops, api.PushOperation{
			Collection: string(item.Collection),
			Operation:  string(item.Operation),
			RecordID:   item.RecordID,
			Data:       item.Payload,
			Timestamp:  item.Timestamp,
		})
	}

	resp, err := e.api.Push(ctx, accessToken, api.PushRequest{Operations: ops})
	if err != nil {
		e.logger.Error("push batch failed", "error", err)
		e.bus.Publish(Event{Type: EventSyncError, Err: err.Error()})
		return nil, fmt.Errorf("push batch failed: %w", err)
	}

	// The server may reorder results; index them by record id and consume one
	// result per submitted operation in order.
	results := make(map[string][]*api.PushResult, len(resp.Results))
	for i := range resp.Results {
		r := &resp.Results[i]
		results[r.RecordID] = append(results[r.RecordID], r)
	}
	takeResult := func(recordID string) *api.PushResult {
		rs := results[recordID]
		if len(rs) == 0 {
			return nil
		}
		results[recordID] = rs[1:]
		return rs[0]
	}

	for i, item := range items {
		e.bus.Publish(Event{Type: EventSyncProgress, Current: i + 1, Total: len(items)})

		res := takeResult(item.RecordID)
		if res == nil {
			// The server did not report on this operation; treat it like a
			// rejection so the item stays visible instead of vanishing.
			if err := e.queue.MarkFailed(ctx, item.QueueID, "no result returned for record"); err != nil {
				e.logger.Error("failed to mark queue item", "queue_id", item.QueueID, "error", err)
			}
			stats.Failed++
			continue
		}

		if !res.Success {
			if err := e.queue.MarkFailed(ctx, item.QueueID, res.Error); err != nil {
				e.logger.Error("failed to mark queue item", "queue_id", item.QueueID, "error", err)
			}
			stats.Failed++
			continue
		}

		if err := e.applySuccess(ctx, item, res); err != nil {
			e.logger.Error("failed to apply push result",
				"queue_id", item.QueueID,
				"record_id", item.RecordID,
				"error", err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
	}

	e.logger.Info("push completed",
		"processed", stats.Processed,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed)
	e.bus.Publish(Event{Type: EventSyncComplete, Stats: stats})
	return stats, nil
}

// applySuccess finalizes one confirmed mutation: reconcile a temporary id to
// the server-issued one, mark the record synced, drop the queue item.
func (e *Engine) applySuccess(ctx context.Context, item *models.QueueItem, res *api.PushResult) error {
	finalID := item.RecordID
	if models.IsTempID(item.RecordID) && res.ServerID != "" {
		if err := e.records.ReassignID(ctx, item.Collection, item.RecordID, res.ServerID); err != nil {
			return fmt.Errorf("failed to reconcile id %s -> %s: %w", item.RecordID, res.ServerID, err)
		}
		finalID = res.ServerID
	} else if item.Operation != models.OpDelete {
		err := e.records.SetStatus(ctx, item.Collection, finalID, models.StatusSynced)
		if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
			return fmt.Errorf("failed to mark record synced: %w", err)
		}
	}

	if err := e.queue.MarkSucceeded(ctx, item.QueueID); err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}
	return nil
}

// Pull refreshes reference collections from the server and advances their
// watermarks. It never touches the mutation queue or user-authored records,
// so pulling with items still queued is safe.
func (e *Engine) Pull(ctx context.Context, accessToken string, collections []models.Collection, opts PullOptions) (*PullStats, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	if !e.probe.Online(ctx) {
		return nil, ErrOffline
	}

	if len(collections) == 0 {
		collections = models.ReferenceCollections
	}

	names := make([]string, 0, len(collections))
	var watermark *time.Time
	for _, c := range collections {
		if !c.IsReference() {
			return nil, fmt.Errorf("collection %s is not pullable reference data", c)
		}
		names = append(names, string(c))

		meta, err := e.meta.GetMeta(ctx, c)
		if err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				// Never pulled; request the full set.
				watermark = nil
				break
			}
			return nil, fmt.Errorf("failed to read watermark for %s: %w", c, err)
		}
		if watermark == nil || meta.LastSync.Before(*watermark) {
			ts := meta.LastSync
			watermark = &ts
		}
	}

	req := api.PullRequest{
		Collections:  names,
		ClassID:      opts.ClassID,
		AcademicYear: opts.AcademicYear,
		LastSync:     watermark,
	}

	resp, err := e.api.Pull(ctx, accessToken, req)
	if err != nil {
		e.logger.Error("pull failed", "error", err)
		e.bus.Publish(Event{Type: EventSyncError, Err: err.Error()})
		return nil, fmt.Errorf("pull request failed: %w", err)
	}

	stats := &PullStats{
		SyncedAt: resp.SyncedAt,
		Counts:   make(map[models.Collection]int, len(collections)),
	}

	for _, c := range collections {
		raws, ok := resp.Data[string(c)]
		if !ok {
			continue
		}

		records, skipped := e.decodeReference(c, raws)
		stats.Skipped += skipped

		if err := e.records.ReplaceCollection(ctx, c, records); err != nil {
			return nil, fmt.Errorf("failed to replace collection %s: %w", c, err)
		}
		if err := e.meta.SaveMeta(ctx, &models.SyncMeta{
			Collection:  c,
			LastSync:    resp.SyncedAt,
			RecordCount: len(records),
		}); err != nil {
			return nil, fmt.Errorf("failed to save watermark for %s: %w", c, err)
		}
		stats.Counts[c] = len(records)
	}

	e.logger.Info("pull completed", "collections", len(stats.Counts), "skipped", stats.Skipped)
	e.bus.Publish(Event{Type: EventPullComplete})
	return stats, nil
}

// decodeReference validates incoming reference records at the store boundary.
// Invalid records are dropped with a warning rather than poisoning the whole
// collection replace.
func (e *Engine) decodeReference(collection models.Collection, raws []json.RawMessage) ([]*models.LocalRecord, int) {
	records := make([]*models.LocalRecord, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		entity, err := models.DecodeEntity(collection, raw)
		if err != nil {
			e.logger.Warn("skipping undecodable record", "collection", collection, "error", err)
			skipped++
			continue
		}
		if err := validation.ValidateEntity(entity); err != nil {
			e.logger.Warn("skipping invalid record",
				"collection", collection,
				"record_id", entity.EntityID(),
				"error", err)
			skipped++
			continue
		}
		records = append(records, &models.LocalRecord{
			Collection: collection,
			ID:         entity.EntityID(),
			Key:        entity.Key(),
			SyncStatus: models.StatusSynced,
			Data:       raw,
		})
	}
	return records, skipped
}
