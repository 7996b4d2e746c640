package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/campusops/timetable-engine/internal/models"
	appErrors "github.com/campusops/timetable-engine/pkg/errors"
)

type facultyPreferenceRepository interface {
	GetByFaculty(ctx context.Context, faculty string) (*models.FacultyPreference, error)
	ListAll(ctx context.Context) ([]models.FacultyPreference, error)
	Upsert(ctx context.Context, pref *models.FacultyPreference) error
}

// UpsertFacultyPreferenceRequest captures a payload to store a faculty
// member's preferred teaching days.
type UpsertFacultyPreferenceRequest struct {
	PreferredDays []string `json:"preferred_days" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
}

// FacultyPreferenceService handles faculty preference storage.
type FacultyPreferenceService struct {
	repo      facultyPreferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyPreferenceService builds the service.
func NewFacultyPreferenceService(repo facultyPreferenceRepository, validate *validator.Validate, logger *zap.Logger) *FacultyPreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyPreferenceService{repo: repo, validator: validate, logger: logger}
}

// Get returns stored preferences, or empty defaults when none exist.
func (s *FacultyPreferenceService) Get(ctx context.Context, faculty string) (*models.FacultyPreference, error) {
	pref, err := s.repo.GetByFaculty(ctx, faculty)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.FacultyPreference{Faculty: faculty, PreferredDays: types.JSONText("[]"), PreferredTime: types.JSONText("[]")}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty preferences")
	}
	return pref, nil
}

// ListAll returns every stored faculty preference.
func (s *FacultyPreferenceService) ListAll(ctx context.Context) ([]models.FacultyPreference, error) {
	prefs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty preferences")
	}
	return prefs, nil
}

// Upsert stores preferences for a faculty member.
func (s *FacultyPreferenceService) Upsert(ctx context.Context, faculty string, req UpsertFacultyPreferenceRequest) (*models.FacultyPreference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	var days types.JSONText = types.JSONText("[]")
	if len(req.PreferredDays) > 0 {
		encoded, err := json.Marshal(req.PreferredDays)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preferred days payload")
		}
		days = types.JSONText(encoded)
	}

	existing, err := s.repo.GetByFaculty(ctx, faculty)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty preferences")
	}

	payload := &models.FacultyPreference{
		Faculty:       faculty,
		PreferredDays: days,
		PreferredTime: types.JSONText("[]"),
	}
	if existing != nil {
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert faculty preferences")
	}
	return payload, nil
}
