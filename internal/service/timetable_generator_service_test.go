package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/cache"
	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/internal/models"
)

type genSubjectCatalogStub struct{}

func (genSubjectCatalogStub) ListByCodes(ctx context.Context, codes []string) ([]models.Subject, error) {
	return nil, nil
}

type genFacultyPrefCatalogStub struct{}

func (genFacultyPrefCatalogStub) ListAll(ctx context.Context) ([]models.FacultyPreference, error) {
	return nil, nil
}

type genTimetableWriterStub struct {
	saved   *models.Timetable
	entries []models.TimetableEntry
	status  models.TimetableStatus
	err     error
}

func (m *genTimetableWriterStub) ReplaceAll(ctx context.Context, tt *models.Timetable, entries []models.TimetableEntry) error {
	if m.err != nil {
		return m.err
	}
	tt.ID = "tt-generated"
	tt.Version = 1
	cp := *tt
	m.saved = &cp
	m.entries = entries
	return nil
}

func (m *genTimetableWriterStub) UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error {
	m.status = status
	return nil
}

func newGeneratorService(t *testing.T, writer *genTimetableWriterStub) (*TimetableGeneratorService, cache.ProposalCache) {
	t.Helper()
	proposals := cache.NewMemoryProposalCache()
	svc := NewTimetableGeneratorService(
		genSubjectCatalogStub{},
		genFacultyPrefCatalogStub{},
		writer,
		proposals,
		nil,
		validator.New(),
		zap.NewNop(),
		TimetableGeneratorConfig{ProposalTTL: time.Minute},
	)
	return svc, proposals
}

// smallRequest mirrors the engine package's own sampleSubjects fixture
// (internal/engine/engine_test.go), which is known to settle into a
// violation-free grid under the default weighted placer.
func smallRequest() dto.GenerateTimetableRequest {
	seed := int64(42)
	return dto.GenerateTimetableRequest{
		Department: "Mathematics",
		Semester:   "Fall 2026",
		Subjects: []dto.SubjectInput{
			{Code: "MATH101", Name: "Calculus I", Faculty: "Ada Lovelace", HoursPerWeek: 4, Department: "Mathematics"},
			{Code: "ENG101", Name: "Composition", Faculty: "Grace Hopper", HoursPerWeek: 3, Department: "Humanities"},
			{Code: "PHYS101", Name: "Mechanics", Faculty: "Marie Curie", HoursPerWeek: 3, LabRequired: true, Department: "Physics"},
			{Code: "CHEM101", Name: "General Chemistry", Faculty: "Rosalind Franklin", HoursPerWeek: 3, LabRequired: true, Department: "Chemistry"},
		},
		Seed: &seed,
	}
}

func TestTimetableGeneratorServiceGenerateProducesProposal(t *testing.T) {
	writer := &genTimetableWriterStub{}
	svc, proposals := newGeneratorService(t, writer)

	resp, err := svc.Generate(context.Background(), smallRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ProposalID)
	assert.Len(t, resp.Rows, 55)

	cached, ok, err := proposals.Get(context.Background(), resp.ProposalID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mathematics", cached.Department)
}

func TestTimetableGeneratorServiceGenerateRejectsEmptySubjects(t *testing.T) {
	writer := &genTimetableWriterStub{}
	svc, _ := newGeneratorService(t, writer)

	req := smallRequest()
	req.Subjects = nil
	_, err := svc.Generate(context.Background(), req)
	require.Error(t, err)
}

func TestTimetableGeneratorServiceGenerateRejectsPreferredTime(t *testing.T) {
	writer := &genTimetableWriterStub{}
	svc, _ := newGeneratorService(t, writer)

	req := smallRequest()
	req.FacultyPreferences = []dto.FacultyPreferenceInput{
		{Faculty: "Ada Lovelace", PreferredTime: []string{"morning"}},
	}
	_, err := svc.Generate(context.Background(), req)
	require.Error(t, err)
}

func TestTimetableGeneratorServiceSavePersistsProposal(t *testing.T) {
	writer := &genTimetableWriterStub{}
	svc, _ := newGeneratorService(t, writer)

	resp, err := svc.Generate(context.Background(), smallRequest())
	require.NoError(t, err)
	require.Empty(t, resp.Violations)

	saved, err := svc.Save(context.Background(), dto.SaveTimetableRequest{ProposalID: resp.ProposalID})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", saved.Department)
	assert.Len(t, writer.entries, 55)
	assert.Equal(t, models.TimetableStatusDraft, saved.Status)
}

func TestTimetableGeneratorServiceSavePublishes(t *testing.T) {
	writer := &genTimetableWriterStub{}
	svc, _ := newGeneratorService(t, writer)

	resp, err := svc.Generate(context.Background(), smallRequest())
	require.NoError(t, err)

	saved, err := svc.Save(context.Background(), dto.SaveTimetableRequest{ProposalID: resp.ProposalID, Publish: true})
	require.NoError(t, err)
	assert.Equal(t, models.TimetableStatusPublished, saved.Status)
	assert.Equal(t, models.TimetableStatusPublished, writer.status)
}

func TestTimetableGeneratorServiceSaveUnknownProposal(t *testing.T) {
	writer := &genTimetableWriterStub{}
	svc, _ := newGeneratorService(t, writer)

	_, err := svc.Save(context.Background(), dto.SaveTimetableRequest{ProposalID: "does-not-exist"})
	require.Error(t, err)
}
