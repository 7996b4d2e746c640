package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/internal/engine"
	"github.com/campusops/timetable-engine/internal/models"
	appErrors "github.com/campusops/timetable-engine/pkg/errors"
)

type timetableReader interface {
	FindLatest(ctx context.Context, department, semester string) (*models.Timetable, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
}

type timetableEntryReader interface {
	ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableEntry, error)
}

// TimetableService is the read-side query surface over stored
// timetables, independent of the generator.
type TimetableService struct {
	timetables timetableReader
	entries    timetableEntryReader
	logger     *zap.Logger
}

// NewTimetableService builds the service.
func NewTimetableService(timetables timetableReader, entries timetableEntryReader, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{timetables: timetables, entries: entries, logger: logger}
}

// GetLatest returns the current live timetable for a department and
// semester, rendered as rows.
func (s *TimetableService) GetLatest(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableResponse, error) {
	tt, err := s.timetables.FindLatest(ctx, query.Department, query.Semester)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated for this department and semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return s.render(ctx, tt)
}

// GetByID returns a specific timetable version by id.
func (s *TimetableService) GetByID(ctx context.Context, id string) (*dto.TimetableResponse, error) {
	tt, err := s.timetables.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return s.render(ctx, tt)
}

func (s *TimetableService) render(ctx context.Context, tt *models.Timetable) (*dto.TimetableResponse, error) {
	entries, err := s.entries.ListByTimetable(ctx, tt.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entries")
	}

	rows := make([]dto.TimetableRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, dto.TimetableRow{
			DayOfWeek:     engine.Day(e.DayOfWeek).String(),
			SessionNumber: e.SessionNumber,
			Label:         e.Label,
		})
	}

	return &dto.TimetableResponse{
		ID:         tt.ID,
		Department: tt.Department,
		Semester:   tt.Semester,
		Version:    tt.Version,
		Status:     string(tt.Status),
		Rows:       rows,
	}, nil
}
