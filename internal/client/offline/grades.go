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

// Grades is the offline-aware accessor for grade records.
type Grades struct {
	api     httpclient.EntityAPI
	records storage.RecordStore
	queue   *queue.Manager
	probe   syncpkg.Probe
	tokens  auth.TokenSource
	logger  *slog.Logger
}

// NewGrades creates a grade accessor.
func NewGrades(api httpclient.EntityAPI, records storage.RecordStore, q *queue.Manager, probe syncpkg.Probe, tokens auth.TokenSource, logger *slog.Logger) *Grades {
	return &Grades{
		api:     api,
		records: records,
		queue:   q,
		probe:   probe,
		tokens:  tokens,
		logger:  logger,
	}
}

// GradeList is the result of a grade read.
type GradeList struct {
	Grades []*models.Grade
	// IsOfflineData marks results served from the local cache.
	IsOfflineData bool
}

// Save creates or updates a grade.
//
// Online, the server is written first and its canonical response mirrored
// locally. A failed online create is demoted to the queue; a failed online
// update is surfaced to the caller without queueing, so validation errors are
// never masked as transient. (The asymmetry is inherited behavior, kept
// pending product confirmation.) Offline, the record is stored PENDING with a
// temporary id when creating, and the mutation queued.
func (g *Grades) Save(ctx context.Context, grade *models.Grade) (*SaveResult, error) {
	if err := validation.ValidateEntity(grade); err != nil {
		return nil, err
	}

	// A save without an id against an existing natural key is an edit of that
	// record, not a second create under the same key.
	if grade.ID == "" {
		if existing, err := g.records.GetByKey(ctx, models.CollectionGrades, grade.Key()); err == nil {
			grade.ID = existing.ID
		} else if !errors.Is(err, storage.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing grade: %w", err)
		}
	}

	isCreate := grade.ID == ""
	isLocalOnly := models.IsTempID(grade.ID)

	if g.probe.Online(ctx) && !isLocalOnly {
		token, err := g.tokens.AccessToken(ctx)
		switch {
		case err != nil && isCreate:
			// No usable session; fall through to the offline path so the
			// teacher's entry is not lost.
			g.logger.Warn("no session for online create, queueing grade", "error", err)
		case err != nil:
			return nil, err
		case isCreate:
			created, cerr := g.api.CreateGrade(ctx, token, grade)
			if cerr == nil {
				if err := mirrorEntity(ctx, g.records, created); err != nil {
					return nil, err
				}
				return &SaveResult{ID: created.ID}, nil
			}
			g.logger.Warn("online create failed, queueing grade", "error", cerr)
		default:
			updated, uerr := g.api.UpdateGrade(ctx, token, grade)
			if uerr != nil {
				// Fail closed: the caller must know the online edit did not save.
				return nil, uerr
			}
			if err := mirrorEntity(ctx, g.records, updated); err != nil {
				return nil, err
			}
			return &SaveResult{ID: updated.ID}, nil
		}
	}

	op := models.OpUpdate
	if isCreate {
		grade.ID = models.NewTempID()
		op = models.OpCreate
	}

	if err := storePending(ctx, g.records, grade); err != nil {
		return nil, fmt.Errorf("failed to store grade locally: %w", err)
	}
	if _, err := g.queue.Enqueue(ctx, models.CollectionGrades, op, grade.ID, grade); err != nil {
		return nil, err
	}
	return &SaveResult{Queued: true, ID: grade.ID}, nil
}

// Delete removes a grade. Online deletes fail closed like updates; offline
// the local record is removed and a DELETE queued.
func (g *Grades) Delete(ctx context.Context, id string) (*SaveResult, error) {
	if id == "" {
		return nil, fmt.Errorf("grade id is required")
	}

	if g.probe.Online(ctx) && !models.IsTempID(id) {
		token, err := g.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		if err := g.api.DeleteGrade(ctx, token, id); err != nil {
			return nil, err
		}
		if err := g.records.Delete(ctx, models.CollectionGrades, id); err != nil {
			return nil, err
		}
		return &SaveResult{ID: id}, nil
	}

	if err := g.records.Delete(ctx, models.CollectionGrades, id); err != nil {
		return nil, err
	}
	if _, err := g.queue.Enqueue(ctx, models.CollectionGrades, models.OpDelete, id,
		map[string]string{"id": id}); err != nil {
		return nil, err
	}
	return &SaveResult{Queued: true, ID: id}, nil
}

// Load returns grades matching the filter: from the server when online (with
// a cache refresh), from the cache otherwise. A cache read never fails on an
// empty collection; it returns an empty, offline-tagged list.
func (g *Grades) Load(ctx context.Context, filter httpclient.GradeFilter) (*GradeList, error) {
	if g.probe.Online(ctx) {
		if token, err := g.tokens.AccessToken(ctx); err == nil {
			grades, lerr := g.api.ListGrades(ctx, token, filter)
			if lerr == nil {
				mirrorEntities(ctx, g.records, g.logger, grades)
				return &GradeList{Grades: grades}, nil
			}
			g.logger.Warn("online grade read failed, serving cache", "error", lerr)
		}
	}

	recs, err := g.records.List(ctx, models.CollectionGrades)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached grades: %w", err)
	}

	grades := make([]*models.Grade, 0, len(recs))
	for _, rec := range recs {
		grade, ok := decodeCached[models.Grade](rec, g.logger)
		if !ok || !gradeMatches(grade, filter) {
			continue
		}
		grades = append(grades, grade)
	}
	return &GradeList{Grades: grades, IsOfflineData: true}, nil
}

func gradeMatches(g *models.Grade, f httpclient.GradeFilter) bool {
	if f.StudentID != "" && g.StudentID != f.StudentID {
		return false
	}
	if f.CourseID != "" && g.CourseID != f.CourseID {
		return false
	}
	if f.ClassID != "" && g.ClassID != f.ClassID {
		return false
	}
	if f.AcademicYear != 0 && g.AcademicYear != f.AcademicYear {
		return false
	}
	return true
}
