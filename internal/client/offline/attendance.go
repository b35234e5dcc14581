package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/auth"
	"github.com/mwalimu/shulesync/internal/client/queue"
	"github.com/mwalimu/shulesync/internal/client/storage"
	syncpkg "github.com/mwalimu/shulesync/internal/client/sync"
	"github.com/mwalimu/shulesync/internal/models"
	"github.com/mwalimu/shulesync/internal/validation"
)

// Attendance is the offline-aware accessor for attendance registers.
type Attendance struct {
	api     httpclient.EntityAPI
	records storage.RecordStore
	queue   *queue.Manager
	probe   syncpkg.Probe
	tokens  auth.TokenSource
	logger  *slog.Logger
}

// NewAttendance creates an attendance accessor.
func NewAttendance(api httpclient.EntityAPI, records storage.RecordStore, q *queue.Manager, probe syncpkg.Probe, tokens auth.TokenSource, logger *slog.Logger) *Attendance {
	return &Attendance{
		api:     api,
		records: records,
		queue:   q,
		probe:   probe,
		tokens:  tokens,
		logger:  logger,
	}
}

// AttendanceList is the result of an attendance read.
type AttendanceList struct {
	Registers     []*models.Attendance
	IsOfflineData bool
}

// Save creates or updates the register for (class, date). There is at most
// one register per class and day: a save without an id against an existing
// key becomes an update of that register, never a duplicate.
//
// Online/offline semantics match Grades.Save, including the create/update
// failure asymmetry.
func (a *Attendance) Save(ctx context.Context, att *models.Attendance) (*SaveResult, error) {
	if err := validation.ValidateEntity(att); err != nil {
		return nil, err
	}

	if att.ID == "" {
		if existing, err := a.records.GetByKey(ctx, models.CollectionAttendance, att.Key()); err == nil {
			att.ID = existing.ID
		} else if !errors.Is(err, storage.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing register: %w", err)
		}
	}

	isCreate := att.ID == ""
	isLocalOnly := models.IsTempID(att.ID)

	if a.probe.Online(ctx) && !isLocalOnly {
		token, err := a.tokens.AccessToken(ctx)
		switch {
		case err != nil && isCreate:
			a.logger.Warn("no session for online create, queueing register", "error", err)
		case err != nil:
			return nil, err
		case isCreate:
			created, cerr := a.api.CreateAttendance(ctx, token, att)
			if cerr == nil {
				if err := mirrorEntity(ctx, a.records, created); err != nil {
					return nil, err
				}
				return &SaveResult{ID: created.ID}, nil
			}
			a.logger.Warn("online create failed, queueing register", "error", cerr)
		default:
			updated, uerr := a.api.UpdateAttendance(ctx, token, att)
			if uerr != nil {
				return nil, uerr
			}
			if err := mirrorEntity(ctx, a.records, updated); err != nil {
				return nil, err
			}
			return &SaveResult{ID: updated.ID}, nil
		}
	}

	op := models.OpUpdate
	if isCreate {
		att.ID = models.NewTempID()
		op = models.OpCreate
	}

	if err := storePending(ctx, a.records, att); err != nil {
		return nil, fmt.Errorf("failed to store register locally: %w", err)
	}
	if _, err := a.queue.Enqueue(ctx, models.CollectionAttendance, op, att.ID, att); err != nil {
		return nil, err
	}
	return &SaveResult{Queued: true, ID: att.ID}, nil
}

// Load returns registers matching the filter, from the server when online
// and the cache otherwise.
func (a *Attendance) Load(ctx context.Context, filter httpclient.AttendanceFilter) (*AttendanceList, error) {
	if a.probe.Online(ctx) {
		if token, err := a.tokens.AccessToken(ctx); err == nil {
			registers, lerr := a.api.ListAttendance(ctx, token, filter)
			if lerr == nil {
				mirrorEntities(ctx, a.records, a.logger, registers)
				return &AttendanceList{Registers: registers}, nil
			}
			a.logger.Warn("online attendance read failed, serving cache", "error", lerr)
		}
	}

	recs, err := a.records.List(ctx, models.CollectionAttendance)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached attendance: %w", err)
	}

	registers := make([]*models.Attendance, 0, len(recs))
	for _, rec := range recs {
		att, ok := decodeCached[models.Attendance](rec, a.logger)
		if !ok || !attendanceMatches(att, filter) {
			continue
		}
		registers = append(registers, att)
	}
	return &AttendanceList{Registers: registers, IsOfflineData: true}, nil
}

func attendanceMatches(a *models.Attendance, f httpclient.AttendanceFilter) bool {
	if f.ClassID != "" && a.ClassID != f.ClassID {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	return true
}
