package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/timetable-engine/internal/models"
)

// FacultyPreferenceRepository persists per-faculty day preferences.
type FacultyPreferenceRepository struct {
	db *sqlx.DB
}

// NewFacultyPreferenceRepository constructs the repository.
func NewFacultyPreferenceRepository(db *sqlx.DB) *FacultyPreferenceRepository {
	return &FacultyPreferenceRepository{db: db}
}

// GetByFaculty returns stored preferences for a faculty member.
func (r *FacultyPreferenceRepository) GetByFaculty(ctx context.Context, faculty string) (*models.FacultyPreference, error) {
	const query = `SELECT id, faculty, preferred_days, preferred_time, created_at, updated_at FROM faculty_preferences WHERE faculty = $1`
	var pref models.FacultyPreference
	if err := r.db.GetContext(ctx, &pref, query, faculty); err != nil {
		return nil, err
	}
	return &pref, nil
}

// ListAll returns every stored faculty preference, used to hydrate the
// generator's per-call configuration.
func (r *FacultyPreferenceRepository) ListAll(ctx context.Context) ([]models.FacultyPreference, error) {
	const query = `SELECT id, faculty, preferred_days, preferred_time, created_at, updated_at FROM faculty_preferences ORDER BY faculty ASC`
	var prefs []models.FacultyPreference
	if err := r.db.SelectContext(ctx, &prefs, query); err != nil {
		return nil, fmt.Errorf("list faculty preferences: %w", err)
	}
	return prefs, nil
}

// Upsert creates or updates a faculty's preferences.
func (r *FacultyPreferenceRepository) Upsert(ctx context.Context, pref *models.FacultyPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now
	if len(pref.PreferredDays) == 0 {
		pref.PreferredDays = []byte("[]")
	}
	if len(pref.PreferredTime) == 0 {
		pref.PreferredTime = []byte("[]")
	}

	const query = `INSERT INTO faculty_preferences (id, faculty, preferred_days, preferred_time, created_at, updated_at)
		VALUES (:id, :faculty, :preferred_days, :preferred_time, :created_at, :updated_at)
		ON CONFLICT (faculty) DO UPDATE
		SET preferred_days = EXCLUDED.preferred_days,
		    preferred_time = EXCLUDED.preferred_time,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert faculty preference: %w", err)
	}
	return nil
}
