package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/cache"
	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/internal/engine"
	"github.com/campusops/timetable-engine/internal/metrics"
	"github.com/campusops/timetable-engine/internal/models"
	appErrors "github.com/campusops/timetable-engine/pkg/errors"
)

type subjectCatalog interface {
	ListByCodes(ctx context.Context, codes []string) ([]models.Subject, error)
}

type facultyPreferenceCatalog interface {
	ListAll(ctx context.Context) ([]models.FacultyPreference, error)
}

type timetableWriter interface {
	ReplaceAll(ctx context.Context, tt *models.Timetable, entries []models.TimetableEntry) error
	UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error
}

// TimetableGeneratorConfig governs generator defaults.
type TimetableGeneratorConfig struct {
	DefaultStrategy          string
	DefaultMaxSessionsPerDay int
	ProposalTTL              time.Duration
}

// TimetableGeneratorService orchestrates the constraint-based generation
// pipeline: it validates the request, hydrates subjects and faculty
// preferences from their repositories, runs the engine under a
// per-call mutex, caches the resulting proposal, and persists it on Save.
type TimetableGeneratorService struct {
	subjects     subjectCatalog
	facultyPrefs facultyPreferenceCatalog
	timetables   timetableWriter
	proposals    cache.ProposalCache
	metrics      *metrics.GeneratorMetrics
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          TimetableGeneratorConfig
	mu           sync.Mutex
}

// NewTimetableGeneratorService wires generator dependencies.
func NewTimetableGeneratorService(
	subjects subjectCatalog,
	facultyPrefs facultyPreferenceCatalog,
	timetables timetableWriter,
	proposals cache.ProposalCache,
	gaugeMetrics *metrics.GeneratorMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableGeneratorConfig,
) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if proposals == nil {
		proposals = cache.NewMemoryProposalCache()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = "weighted"
	}
	if cfg.DefaultMaxSessionsPerDay <= 0 {
		cfg.DefaultMaxSessionsPerDay = engine.DefaultMaxPerDay
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	return &TimetableGeneratorService{
		subjects:     subjects,
		facultyPrefs: facultyPrefs,
		timetables:   timetables,
		proposals:    proposals,
		metrics:      gaugeMetrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// Generate runs the full C1-C6 pipeline for one request and caches the
// resulting proposal for a later Save.
func (s *TimetableGeneratorService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	subjects, err := s.buildSubjects(ctx, req.Subjects)
	if err != nil {
		return nil, err
	}

	prefs, err := s.buildPreferences(ctx, req.FacultyPreferences)
	if err != nil {
		return nil, err
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.cfg.DefaultStrategy
	}
	maxPerDay := req.MaxSessionsPerDay
	if maxPerDay <= 0 {
		maxPerDay = s.cfg.DefaultMaxSessionsPerDay
	}

	cfg := engine.Config{
		MaxSessionsPerDay:  maxPerDay,
		DesiredFreePeriods: req.DesiredFreePeriods,
		FacultyPreferences: prefs,
	}

	var placer engine.Placer
	switch strategy {
	case "backtracking":
		placer = engine.BacktrackingPlacer{}
	default:
		placer = engine.WeightedPlacer{}
		strategy = "weighted"
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	src := engine.NewSource(seed)

	var missingLabs []string
	logMissingLab := func(msg string) { missingLabs = append(missingLabs, msg) }

	s.mu.Lock()
	start := time.Now()
	result, genErr := engine.Generate(subjects, req.DesiredFreePeriods, cfg, placer, src, logMissingLab)
	duration := time.Since(start)
	s.mu.Unlock()

	s.metrics.ObserveGeneration(strategy, duration)
	if genErr != nil {
		return nil, translateEngineError(genErr)
	}

	for _, msg := range missingLabs {
		result.Warnings = append(result.Warnings, msg)
	}

	s.metrics.SetFreePeriodsLastRun(result.Grid.TotalFreePeriods())
	for kind, count := range classifyViolations(result.Violations) {
		s.metrics.RecordViolations(kind, count)
	}

	generated := buildRows(result.Grid, subjects)
	proposalRows := make([]cache.ProposalRow, len(generated))
	responseRows := make([]dto.TimetableRow, len(generated))
	for i, r := range generated {
		proposalRows[i] = cache.ProposalRow{DayOfWeek: int(r.Day), SessionNumber: r.SessionNumber, Label: r.Label, SubjectCode: r.SubjectCode}
		responseRows[i] = dto.TimetableRow{DayOfWeek: r.Day.String(), SessionNumber: r.SessionNumber, Label: r.Label}
	}

	proposalID := uuid.NewString()
	proposal := cache.Proposal{
		ID:         proposalID,
		Department: req.Department,
		Semester:   req.Semester,
		Rows:       proposalRows,
		Warnings:   result.Warnings,
		Violations: result.Violations,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.proposals.Save(ctx, s.cfg.ProposalTTL, proposal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cache generated proposal")
	}

	return &dto.GenerateTimetableResponse{
		ProposalID: proposalID,
		Rows:       responseRows,
		Warnings:   result.Warnings,
		Violations: result.Violations,
	}, nil
}

// Save persists a cached proposal as the live timetable for its
// department/semester pair, replacing whatever was there before.
func (s *TimetableGeneratorService) Save(ctx context.Context, req dto.SaveTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save request")
	}

	proposal, ok, err := s.proposals.Get(ctx, req.ProposalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cached proposal")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if len(proposal.Violations) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "proposal has unresolved validator violations")
	}

	meta, err := json.Marshal(map[string]any{
		"warnings":  proposal.Warnings,
		"generated": proposal.CreatedAt,
		"algorithm": "constraint_pipeline_v1",
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
	}

	tt := &models.Timetable{
		Department: proposal.Department,
		Semester:   proposal.Semester,
		Status:     models.TimetableStatusDraft,
		Meta:       meta,
	}

	entries := make([]models.TimetableEntry, 0, len(proposal.Rows))
	for _, row := range proposal.Rows {
		entries = append(entries, models.TimetableEntry{
			DayOfWeek:     row.DayOfWeek,
			SessionNumber: row.SessionNumber,
			Label:         row.Label,
			SubjectCode:   row.SubjectCode,
		})
	}

	if err := s.timetables.ReplaceAll(ctx, tt, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable")
	}

	if req.Publish {
		if err := s.timetables.UpdateStatus(ctx, tt.ID, models.TimetableStatusPublished); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish timetable")
		}
		tt.Status = models.TimetableStatusPublished
	}

	if err := s.proposals.Delete(ctx, req.ProposalID); err != nil {
		s.logger.Warn("failed to evict saved proposal from cache", zap.String("proposalId", req.ProposalID), zap.Error(err))
	}

	return tt, nil
}

func (s *TimetableGeneratorService) buildSubjects(ctx context.Context, inputs []dto.SubjectInput) ([]engine.Subject, error) {
	departmentByCode := map[string]string{}
	if s.subjects != nil {
		codes := make([]string, len(inputs))
		for i, in := range inputs {
			codes[i] = in.Code
		}
		catalog, err := s.subjects.ListByCodes(ctx, codes)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject catalog")
		}
		for _, c := range catalog {
			departmentByCode[c.Code] = c.Department
		}
	}

	subjects := make([]engine.Subject, len(inputs))
	for i, in := range inputs {
		department := in.Department
		if department == "" {
			department = departmentByCode[in.Code]
		}
		subjects[i] = engine.Subject{
			Code:             in.Code,
			Name:             in.Name,
			Faculty:          in.Faculty,
			HoursPerWeek:     in.HoursPerWeek,
			LabRequired:      in.LabRequired,
			Department:       department,
			AlternateFaculty: in.AlternateFaculty,
		}
	}
	return subjects, nil
}

func (s *TimetableGeneratorService) buildPreferences(ctx context.Context, inputs []dto.FacultyPreferenceInput) (map[string]engine.FacultyPreference, error) {
	prefs := map[string]engine.FacultyPreference{}

	if s.facultyPrefs != nil {
		stored, err := s.facultyPrefs.ListAll(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty preferences")
		}
		for _, p := range stored {
			var days []string
			_ = json.Unmarshal(p.PreferredDays, &days)
			prefs[p.Faculty] = engine.FacultyPreference{Faculty: p.Faculty, PreferredDays: parseDays(days)}
		}
	}

	for _, in := range inputs {
		prefs[in.Faculty] = engine.FacultyPreference{
			Faculty:       in.Faculty,
			PreferredDays: parseDays(in.PreferredDays),
			PreferredTime: in.PreferredTime,
		}
	}

	return prefs, nil
}

func parseDays(names []string) []engine.Day {
	var days []engine.Day
	for _, n := range names {
		if d, ok := engine.ParseDay(n); ok {
			days = append(days, d)
		}
	}
	return days
}

type generatedRow struct {
	Day           engine.Day
	SessionNumber int
	Label         string
	SubjectCode   *string
}

// buildRows zips the engine's rendered labels with the raw grid so a
// row carries both its display label and the subject code driving
// persistence, without engine.Render needing to expose the latter.
func buildRows(g *engine.Grid, subjects []engine.Subject) []generatedRow {
	rendered := engine.Render(g, subjects)
	rows := make([]generatedRow, 0, len(rendered))
	idx := 0
	for _, d := range engine.Days {
		for i := 0; i < engine.SlotsPerDay; i++ {
			slot := g.Get(d, i)
			row := generatedRow{Day: d, SessionNumber: i + 1, Label: rendered[idx].Label}
			if slot.Kind == engine.SubjectSlot || slot.Kind == engine.LabSlot {
				code := slot.SubjectCode
				row.SubjectCode = &code
			}
			rows = append(rows, row)
			idx++
		}
	}
	return rows
}

func translateEngineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrNoSubjects):
		return appErrors.Clone(appErrors.ErrValidation, "at least one subject is required")
	case errors.Is(err, engine.ErrPreferredTimeUnsupported):
		return appErrors.Clone(appErrors.ErrValidation, "facultyPreferences[].preferredTime is not supported and must be omitted")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation failed")
	}
}

func classifyViolations(violations []string) map[string]int {
	counts := map[string]int{}
	for _, v := range violations {
		counts[classifyViolation(v)]++
	}
	return counts
}

func classifyViolation(v string) string {
	switch {
	case strings.Contains(v, "does not equal desired"):
		return "free_period_total"
	case strings.Contains(v, "free periods, exceeding"):
		return "per_day_free_cap"
	case strings.Contains(v, "runs") && strings.Contains(v, "consecutive"):
		return "consecutive_run"
	case strings.Contains(v, "remain unallocated"):
		return "unallocated_slot"
	case strings.Contains(v, "weekly theory sessions"):
		return "hours_mismatch"
	case strings.Contains(v, "lab sessions"):
		return "lab_mismatch"
	case strings.Contains(v, "per-day cap"):
		return "subject_per_day_cap"
	default:
		return "other"
	}
}
