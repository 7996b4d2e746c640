package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/internal/models"
)

type timetableRepoStub struct {
	byID   map[string]*models.Timetable
	latest *models.Timetable
}

func (m *timetableRepoStub) FindLatest(ctx context.Context, department, semester string) (*models.Timetable, error) {
	if m.latest == nil {
		return nil, sql.ErrNoRows
	}
	cp := *m.latest
	return &cp, nil
}

func (m *timetableRepoStub) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	if tt, ok := m.byID[id]; ok {
		cp := *tt
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type timetableEntryRepoStub struct {
	byTimetable map[string][]models.TimetableEntry
}

func (m *timetableEntryRepoStub) ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableEntry, error) {
	return m.byTimetable[timetableID], nil
}

func TestTimetableServiceGetLatest(t *testing.T) {
	tt := &models.Timetable{ID: "tt-1", Department: "Mathematics", Semester: "Fall 2026", Version: 2, Status: models.TimetableStatusPublished}
	timetables := &timetableRepoStub{latest: tt}
	entries := &timetableEntryRepoStub{byTimetable: map[string][]models.TimetableEntry{
		"tt-1": {{DayOfWeek: 0, SessionNumber: 1, Label: "Free Period"}},
	}}
	service := NewTimetableService(timetables, entries, zap.NewNop())

	resp, err := service.GetLatest(context.Background(), dto.TimetableQuery{Department: "Mathematics", Semester: "Fall 2026"})
	require.NoError(t, err)
	assert.Equal(t, "tt-1", resp.ID)
	assert.Equal(t, 2, resp.Version)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Monday", resp.Rows[0].DayOfWeek)
}

func TestTimetableServiceGetLatestNotFound(t *testing.T) {
	timetables := &timetableRepoStub{}
	entries := &timetableEntryRepoStub{}
	service := NewTimetableService(timetables, entries, zap.NewNop())

	_, err := service.GetLatest(context.Background(), dto.TimetableQuery{Department: "Mathematics", Semester: "Fall 2026"})
	require.Error(t, err)
}

func TestTimetableServiceGetByID(t *testing.T) {
	tt := &models.Timetable{ID: "tt-2", Department: "Physics", Semester: "Fall 2026", Version: 1, Status: models.TimetableStatusDraft}
	timetables := &timetableRepoStub{byID: map[string]*models.Timetable{"tt-2": tt}}
	entries := &timetableEntryRepoStub{byTimetable: map[string][]models.TimetableEntry{}}
	service := NewTimetableService(timetables, entries, zap.NewNop())

	resp, err := service.GetByID(context.Background(), "tt-2")
	require.NoError(t, err)
	assert.Equal(t, "Physics", resp.Department)
	assert.Empty(t, resp.Rows)
}
