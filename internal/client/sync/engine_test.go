package sync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/queue"
	"github.com/mwalimu/shulesync/internal/client/storage/sqlite"
	"github.com/mwalimu/shulesync/internal/models"
	"github.com/mwalimu/shulesync/pkg/api"
)

type engineFixture struct {
	engine *Engine
	store  *sqlite.Storage
	queue  *queue.Manager
	api    *httpclient.SyncAPIMock
}

func newEngineFixture(t *testing.T, mockAPI *httpclient.SyncAPIMock, online bool) *engineFixture {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := queue.NewManager(store, 0, logger)
	probe := &ProbeMock{
		OnlineFunc: func(ctx context.Context) bool { return online },
	}

	return &engineFixture{
		engine: NewEngine(mockAPI, store, q, store, probe, logger),
		store:  store,
		queue:  q,
		api:    mockAPI,
	}
}

func (f *engineFixture) enqueueGrade(t *testing.T, op models.QueueOperation, grade *models.Grade) *models.QueueItem {
	t.Helper()

	ctx := context.Background()
	data, err := json.Marshal(grade)
	require.NoError(t, err)

	if op != models.OpDelete {
		rec := &models.LocalRecord{
			Collection: models.CollectionGrades,
			ID:         grade.ID,
			Key:        grade.Key(),
			SyncStatus: models.StatusPending,
			Data:       data,
		}
		require.NoError(t, f.store.UpsertMany(ctx, models.CollectionGrades, []*models.LocalRecord{rec}))
	}

	item, err := f.queue.Enqueue(ctx, models.CollectionGrades, op, grade.ID, grade)
	require.NoError(t, err)
	return item
}

func okResult(recordID, serverID string) api.PushResult {
	return api.PushResult{RecordID: recordID, ServerID: serverID, Success: true}
}

func TestPush_Offline(t *testing.T) {
	f := newEngineFixture(t, &httpclient.SyncAPIMock{}, false)

	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 80,
	})

	_, err := f.engine.Push(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrOffline)

	// Nothing touched the queue.
	n, err := f.queue.CountPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, f.api.PushCalls())
}

func TestPush_SingleFlight(t *testing.T) {
	f := newEngineFixture(t, &httpclient.SyncAPIMock{}, true)

	f.engine.mu.Lock()
	defer f.engine.mu.Unlock()

	_, err := f.engine.Push(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrSyncInProgress)

	_, err = f.engine.Pull(context.Background(), "tok", nil, PullOptions{})
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestPush_EmptyQueue(t *testing.T) {
	f := newEngineFixture(t, &httpclient.SyncAPIMock{}, true)

	stats, err := f.engine.Push(context.Background(), "tok")
	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
	assert.Empty(t, f.api.PushCalls(), "no batch request for an empty queue")
}

func TestPush_TempIDReconciliation(t *testing.T) {
	tempID := models.NewTempID()
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			require.Len(t, req.Operations, 1)
			assert.Equal(t, tempID, req.Operations[0].RecordID)
			return &api.PushResponse{
				Results:   []api.PushResult{okResult(tempID, "grade-42")},
				Processed: 1, Succeeded: 1,
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: tempID, StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 80,
	})

	stats, err := f.engine.Push(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Succeeded)
	assert.Zero(t, stats.Failed)

	// Temp id is gone everywhere; record is SYNCED under the server id.
	rec, err := f.store.GetByID(ctx, models.CollectionGrades, "grade-42")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, rec.SyncStatus)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(rec.Data, &fields))
	assert.Equal(t, "grade-42", fields["id"])

	n, err := f.queue.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPush_OfflineEditsConverge(t *testing.T) {
	// A register created offline and then amended offline must produce two
	// queue items that replay in order and land under the server id.
	tempID := models.NewTempID()
	created := &models.Attendance{
		ID:      tempID,
		ClassID: "c1",
		Date:    "2025-03-10",
		Entries: []models.AttendanceEntry{{StudentID: "s1", Status: models.AttendancePresent}},
	}
	amended := &models.Attendance{
		ID:      tempID,
		ClassID: "c1",
		Date:    "2025-03-10",
		Entries: []models.AttendanceEntry{{StudentID: "s1", Status: models.AttendanceLate}},
	}

	var gotOps []api.PushOperation
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			gotOps = req.Operations
			results := make([]api.PushResult, len(req.Operations))
			for i, op := range req.Operations {
				results[i] = okResult(op.RecordID, "att-7")
			}
			return &api.PushResponse{Results: results, Processed: len(results), Succeeded: len(results)}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	createdData, _ := json.Marshal(created)
	require.NoError(t, f.store.UpsertMany(ctx, models.CollectionAttendance, []*models.LocalRecord{{
		Collection: models.CollectionAttendance,
		ID:         tempID,
		Key:        created.Key(),
		SyncStatus: models.StatusPending,
		Data:       createdData,
	}}))
	_, err := f.queue.Enqueue(ctx, models.CollectionAttendance, models.OpCreate, tempID, created)
	require.NoError(t, err)

	amendedData, _ := json.Marshal(amended)
	require.NoError(t, f.store.UpsertMany(ctx, models.CollectionAttendance, []*models.LocalRecord{{
		Collection: models.CollectionAttendance,
		ID:         tempID,
		Key:        amended.Key(),
		SyncStatus: models.StatusPending,
		Data:       amendedData,
	}}))
	_, err = f.queue.Enqueue(ctx, models.CollectionAttendance, models.OpUpdate, tempID, amended)
	require.NoError(t, err)

	stats, err := f.engine.Push(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Succeeded)

	// Replay preserved enqueue order: CREATE before UPDATE.
	require.Len(t, gotOps, 2)
	assert.Equal(t, "CREATE", gotOps[0].Operation)
	assert.Equal(t, "UPDATE", gotOps[1].Operation)

	// Single record under the canonical id, queue drained.
	rec, err := f.store.GetByID(ctx, models.CollectionAttendance, "att-7")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, rec.SyncStatus)

	n, err := f.queue.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPush_PartialFailureIsolated(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			require.Len(t, req.Operations, 3)
			return &api.PushResponse{
				Results: []api.PushResult{
					okResult(req.Operations[0].RecordID, "grade-1"),
					{RecordID: req.Operations[1].RecordID, Success: false, Error: "duplicate grade"},
					okResult(req.Operations[2].RecordID, "grade-3"),
				},
				Processed: 3, Succeeded: 2, Failed: 1,
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 70,
	})
	rejected := f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s2", CourseID: "math", AcademicYear: 2025, Value: 75,
	})
	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s3", CourseID: "math", AcademicYear: 2025, Value: 80,
	})

	stats, err := f.engine.Push(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)

	// The rejected item stays queued with its retry counted; the two
	// confirmed ones are gone.
	pending, err := f.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rejected.QueueID, pending[0].QueueID)
	assert.Equal(t, 1, pending[0].Retries)
	assert.Equal(t, "duplicate grade", pending[0].LastError)
}

func TestPush_TransportFailureLeavesQueueUntouched(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			return nil, &httpclient.TransportError{Err: errors.New("connection refused")}
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	item := f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 70,
	})

	_, err := f.engine.Push(ctx, "tok")
	require.Error(t, err)

	var transportErr *httpclient.TransportError
	assert.ErrorAs(t, err, &transportErr)

	// No retries burned, nothing removed.
	pending, err := f.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, item.QueueID, pending[0].QueueID)
	assert.Zero(t, pending[0].Retries)
}

func TestPush_OutOfOrderResults(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			require.Len(t, req.Operations, 2)
			// Results arrive reversed relative to submission order.
			return &api.PushResponse{
				Results: []api.PushResult{
					okResult(req.Operations[1].RecordID, "grade-2"),
					okResult(req.Operations[0].RecordID, "grade-1"),
				},
				Processed: 2, Succeeded: 2,
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 70,
	})
	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s2", CourseID: "math", AcademicYear: 2025, Value: 75,
	})

	stats, err := f.engine.Push(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Succeeded)

	n, err := f.queue.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPush_MissingResultMarksFailure(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			// Server reports on only the first of two operations.
			return &api.PushResponse{
				Results:   []api.PushResult{okResult(req.Operations[0].RecordID, "grade-1")},
				Processed: 1, Succeeded: 1,
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 70,
	})
	orphan := f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s2", CourseID: "math", AcademicYear: 2025, Value: 75,
	})

	stats, err := f.engine.Push(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)

	pending, err := f.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, orphan.QueueID, pending[0].QueueID)
	assert.Equal(t, 1, pending[0].Retries)
}

func TestPush_DeleteSkipsRecordStatus(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PushFunc: func(ctx context.Context, accessToken string, req api.PushRequest) (*api.PushResponse, error) {
			return &api.PushResponse{
				Results:   []api.PushResult{okResult("grade-1", "")},
				Processed: 1, Succeeded: 1,
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	// The local record was already removed when the delete was queued.
	_, err := f.queue.Enqueue(ctx, models.CollectionGrades, models.OpDelete, "grade-1", map[string]string{"id": "grade-1"})
	require.NoError(t, err)

	stats, err := f.engine.Push(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Succeeded)

	n, err := f.queue.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPull_ReplacesReferenceData(t *testing.T) {
	syncedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	mockAPI := &httpclient.SyncAPIMock{
		PullFunc: func(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error) {
			assert.Nil(t, req.LastSync, "first pull requests the full set")
			assert.Equal(t, "c1", req.ClassID)
			return &api.PullResponse{
				SyncedAt: syncedAt,
				Data: map[string][]json.RawMessage{
					"students": {
						json.RawMessage(`{"id":"s1","first_name":"Asha","last_name":"O","class_id":"c1"}`),
						json.RawMessage(`{"id":"s2","first_name":"Ben","last_name":"K","class_id":"c1"}`),
					},
					"classes": {
						json.RawMessage(`{"id":"c1","name":"4B"}`),
					},
				},
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	stats, err := f.engine.Pull(ctx, "tok",
		[]models.Collection{models.CollectionStudents, models.CollectionClasses},
		PullOptions{ClassID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Counts[models.CollectionStudents])
	assert.Equal(t, 1, stats.Counts[models.CollectionClasses])
	assert.Zero(t, stats.Skipped)

	students, err := f.store.List(ctx, models.CollectionStudents)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	meta, err := f.store.GetMeta(ctx, models.CollectionStudents)
	require.NoError(t, err)
	assert.True(t, meta.LastSync.Equal(syncedAt))
	assert.Equal(t, 2, meta.RecordCount)
}

func TestPull_SendsWatermarkAfterFirstSync(t *testing.T) {
	firstSync := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var gotLastSync *time.Time
	mockAPI := &httpclient.SyncAPIMock{
		PullFunc: func(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error) {
			gotLastSync = req.LastSync
			return &api.PullResponse{SyncedAt: time.Now().UTC(), Data: map[string][]json.RawMessage{}}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	require.NoError(t, f.store.SaveMeta(ctx, &models.SyncMeta{
		Collection: models.CollectionStudents, LastSync: firstSync, RecordCount: 2,
	}))

	_, err := f.engine.Pull(ctx, "tok", []models.Collection{models.CollectionStudents}, PullOptions{})
	require.NoError(t, err)
	require.NotNil(t, gotLastSync)
	assert.True(t, gotLastSync.Equal(firstSync))
}

func TestPull_UsesOldestWatermarkAcrossCollections(t *testing.T) {
	older := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	var gotLastSync *time.Time
	mockAPI := &httpclient.SyncAPIMock{
		PullFunc: func(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error) {
			gotLastSync = req.LastSync
			return &api.PullResponse{SyncedAt: time.Now().UTC(), Data: map[string][]json.RawMessage{}}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	require.NoError(t, f.store.SaveMeta(ctx, &models.SyncMeta{
		Collection: models.CollectionStudents, LastSync: newer,
	}))
	require.NoError(t, f.store.SaveMeta(ctx, &models.SyncMeta{
		Collection: models.CollectionClasses, LastSync: older,
	}))

	_, err := f.engine.Pull(ctx, "tok",
		[]models.Collection{models.CollectionStudents, models.CollectionClasses}, PullOptions{})
	require.NoError(t, err)
	require.NotNil(t, gotLastSync)
	assert.True(t, gotLastSync.Equal(older))
}

func TestPull_RejectsMutableCollections(t *testing.T) {
	f := newEngineFixture(t, &httpclient.SyncAPIMock{}, true)

	_, err := f.engine.Pull(context.Background(), "tok",
		[]models.Collection{models.CollectionGrades}, PullOptions{})
	assert.Error(t, err)
}

func TestPull_Offline(t *testing.T) {
	f := newEngineFixture(t, &httpclient.SyncAPIMock{}, false)

	_, err := f.engine.Pull(context.Background(), "tok", nil, PullOptions{})
	assert.ErrorIs(t, err, ErrOffline)
}

func TestPull_SkipsInvalidRecords(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PullFunc: func(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error) {
			return &api.PullResponse{
				SyncedAt: time.Now().UTC(),
				Data: map[string][]json.RawMessage{
					"students": {
						json.RawMessage(`{"id":"s1","first_name":"Asha","last_name":"O"}`),
						json.RawMessage(`{"id":"s2"}`),   // missing required names
						json.RawMessage(`{"not json"!}`), // undecodable
					},
				},
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	stats, err := f.engine.Pull(ctx, "tok", []models.Collection{models.CollectionStudents}, PullOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counts[models.CollectionStudents])
	assert.Equal(t, 2, stats.Skipped)

	students, err := f.store.List(ctx, models.CollectionStudents)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
}

func TestPull_NeverTouchesQueueOrPendingRecords(t *testing.T) {
	mockAPI := &httpclient.SyncAPIMock{
		PullFunc: func(ctx context.Context, accessToken string, req api.PullRequest) (*api.PullResponse, error) {
			return &api.PullResponse{
				SyncedAt: time.Now().UTC(),
				Data: map[string][]json.RawMessage{
					"students": {json.RawMessage(`{"id":"s1","first_name":"Asha","last_name":"O"}`)},
				},
			}, nil
		},
	}
	f := newEngineFixture(t, mockAPI, true)
	ctx := context.Background()

	item := f.enqueueGrade(t, models.OpCreate, &models.Grade{
		ID: models.NewTempID(), StudentID: "s1", CourseID: "math", AcademicYear: 2025, Value: 70,
	})

	_, err := f.engine.Pull(ctx, "tok", []models.Collection{models.CollectionStudents}, PullOptions{})
	require.NoError(t, err)

	pending, err := f.queue.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, item.QueueID, pending[0].QueueID)

	n, err := f.store.CountPendingRecords(ctx, models.CollectionGrades)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
