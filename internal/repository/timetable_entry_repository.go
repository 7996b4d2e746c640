package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/timetable-engine/internal/models"
)

// TimetableEntryRepository provides read access to a timetable's
// entries. Writes only ever happen as part of TimetableRepository's
// ReplaceAll transaction.
type TimetableEntryRepository struct {
	db *sqlx.DB
}

// NewTimetableEntryRepository builds the repository.
func NewTimetableEntryRepository(db *sqlx.DB) *TimetableEntryRepository {
	return &TimetableEntryRepository{db: db}
}

// ListByTimetable returns entries ordered by day/session for a
// timetable.
func (r *TimetableEntryRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableEntry, error) {
	const query = `SELECT id, timetable_id, department, semester, day_of_week, session_number, label, subject_code, created_at
FROM timetable_entries WHERE timetable_id = $1 ORDER BY day_of_week ASC, session_number ASC`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}
