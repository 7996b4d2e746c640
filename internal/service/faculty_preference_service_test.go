package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/models"
)

type facultyPrefRepoStub struct {
	stored map[string]*models.FacultyPreference
}

func newFacultyPrefRepoStub() *facultyPrefRepoStub {
	return &facultyPrefRepoStub{stored: map[string]*models.FacultyPreference{}}
}

func (m *facultyPrefRepoStub) GetByFaculty(ctx context.Context, faculty string) (*models.FacultyPreference, error) {
	if p, ok := m.stored[faculty]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *facultyPrefRepoStub) ListAll(ctx context.Context) ([]models.FacultyPreference, error) {
	var out []models.FacultyPreference
	for _, p := range m.stored {
		out = append(out, *p)
	}
	return out, nil
}

func (m *facultyPrefRepoStub) Upsert(ctx context.Context, pref *models.FacultyPreference) error {
	cp := *pref
	m.stored[pref.Faculty] = &cp
	return nil
}

func TestFacultyPreferenceServiceGetDefault(t *testing.T) {
	repo := newFacultyPrefRepoStub()
	service := NewFacultyPreferenceService(repo, validator.New(), zap.NewNop())

	pref, err := service.Get(context.Background(), "dr-rao")
	require.NoError(t, err)
	assert.Equal(t, "dr-rao", pref.Faculty)
	assert.Equal(t, types.JSONText("[]"), pref.PreferredDays)
}

func TestFacultyPreferenceServiceUpsertAndGet(t *testing.T) {
	repo := newFacultyPrefRepoStub()
	service := NewFacultyPreferenceService(repo, validator.New(), zap.NewNop())

	result, err := service.Upsert(context.Background(), "dr-rao", UpsertFacultyPreferenceRequest{
		PreferredDays: []string{"MONDAY", "WEDNESDAY"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dr-rao", result.Faculty)

	fetched, err := service.Get(context.Background(), "dr-rao")
	require.NoError(t, err)
	assert.JSONEq(t, `["MONDAY","WEDNESDAY"]`, string(fetched.PreferredDays))
}

func TestFacultyPreferenceServiceUpsertRejectsBadDay(t *testing.T) {
	repo := newFacultyPrefRepoStub()
	service := NewFacultyPreferenceService(repo, validator.New(), zap.NewNop())

	_, err := service.Upsert(context.Background(), "dr-rao", UpsertFacultyPreferenceRequest{
		PreferredDays: []string{"FUNDAY"},
	})
	require.Error(t, err)
}

func TestFacultyPreferenceServiceListAll(t *testing.T) {
	repo := newFacultyPrefRepoStub()
	repo.stored["dr-rao"] = &models.FacultyPreference{Faculty: "dr-rao", PreferredDays: types.JSONText(`["MONDAY"]`)}
	repo.stored["dr-iyer"] = &models.FacultyPreference{Faculty: "dr-iyer", PreferredDays: types.JSONText(`["FRIDAY"]`)}

	service := NewFacultyPreferenceService(repo, validator.New(), zap.NewNop())
	all, err := service.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
