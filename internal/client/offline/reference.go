package offline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpclient "github.com/mwalimu/shulesync/internal/client/api"
	"github.com/mwalimu/shulesync/internal/client/auth"
	"github.com/mwalimu/shulesync/internal/client/storage"
	syncpkg "github.com/mwalimu/shulesync/internal/client/sync"
	"github.com/mwalimu/shulesync/internal/models"
)

// Students is the offline-aware accessor for the student roster.
type Students struct {
	api     httpclient.EntityAPI
	records storage.RecordStore
	probe   syncpkg.Probe
	tokens  auth.TokenSource
	logger  *slog.Logger
}

// NewStudents creates a student accessor.
func NewStudents(api httpclient.EntityAPI, records storage.RecordStore, probe syncpkg.Probe, tokens auth.TokenSource, logger *slog.Logger) *Students {
	return &Students{
		api:     api,
		records: records,
		probe:   probe,
		tokens:  tokens,
		logger:  logger,
	}
}

// StudentList is the result of a roster read.
type StudentList struct {
	Students      []*models.Student
	IsOfflineData bool
}

// Load returns students (optionally one class's), live when online with a
// cache refresh, cached otherwise.
func (s *Students) Load(ctx context.Context, classID string) (*StudentList, error) {
	if s.probe.Online(ctx) {
		if token, err := s.tokens.AccessToken(ctx); err == nil {
			students, lerr := s.api.ListStudents(ctx, token, classID)
			if lerr == nil {
				mirrorEntities(ctx, s.records, s.logger, students)
				return &StudentList{Students: students}, nil
			}
			s.logger.Warn("online roster read failed, serving cache", "error", lerr)
		}
	}

	recs, err := s.records.List(ctx, models.CollectionStudents)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached students: %w", err)
	}

	students := make([]*models.Student, 0, len(recs))
	for _, rec := range recs {
		student, ok := decodeCached[models.Student](rec, s.logger)
		if !ok {
			continue
		}
		if classID != "" && student.ClassID != classID {
			continue
		}
		students = append(students, student)
	}
	return &StudentList{Students: students, IsOfflineData: true}, nil
}

// Reference reads the cached reference lists (classes, courses, schools).
// These collections are refreshed only by pull, so reads are always local and
// staleness is reported from the pull watermark.
type Reference struct {
	records storage.RecordStore
	meta    storage.MetaStore
	logger  *slog.Logger
}

// NewReference creates a reference-list accessor.
func NewReference(records storage.RecordStore, meta storage.MetaStore, logger *slog.Logger) *Reference {
	return &Reference{
		records: records,
		meta:    meta,
		logger:  logger,
	}
}

// Classes returns the cached class list.
func (r *Reference) Classes(ctx context.Context) ([]*models.Class, error) {
	return listReference[models.Class](ctx, r, models.CollectionClasses)
}

// Courses returns the cached course list.
func (r *Reference) Courses(ctx context.Context) ([]*models.Course, error) {
	return listReference[models.Course](ctx, r, models.CollectionCourses)
}

// Schools returns the cached school list.
func (r *Reference) Schools(ctx context.Context) ([]*models.School, error) {
	return listReference[models.School](ctx, r, models.CollectionSchools)
}

// LastSync returns when a collection was last pulled; the zero time means
// never.
func (r *Reference) LastSync(ctx context.Context, collection models.Collection) (time.Time, error) {
	meta, err := r.meta.GetMeta(ctx, collection)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return meta.LastSync, nil
}

func listReference[E any](ctx context.Context, r *Reference, collection models.Collection) ([]*E, error) {
	recs, err := r.records.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached %s: %w", collection, err)
	}
	out := make([]*E, 0, len(recs))
	for _, rec := range recs {
		e, ok := decodeCached[E](rec, r.logger)
		if !ok {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
