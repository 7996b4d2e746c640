package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campusops/timetable-engine/internal/models"
)

// TimetableRepository persists the single live timetable per
// department/semester pair. There is no partial update path: every
// generation replaces the whole grid inside one transaction, since a
// timetable is only ever valid as a complete 55-entry unit.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// FindLatest returns the current timetable for a department/semester
// pair, or sql.ErrNoRows if none has been generated yet.
func (r *TimetableRepository) FindLatest(ctx context.Context, department, semester string) (*models.Timetable, error) {
	const query = `SELECT id, department, semester, version, status, meta, created_at, updated_at
FROM timetables WHERE department = $1 AND semester = $2 ORDER BY version DESC LIMIT 1`
	var tt models.Timetable
	if err := r.db.GetContext(ctx, &tt, query, department, semester); err != nil {
		return nil, err
	}
	return &tt, nil
}

// FindByID loads a timetable by its identifier.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	const query = `SELECT id, department, semester, version, status, meta, created_at, updated_at FROM timetables WHERE id = $1`
	var tt models.Timetable
	if err := r.db.GetContext(ctx, &tt, query, id); err != nil {
		return nil, err
	}
	return &tt, nil
}

// ReplaceAll atomically deletes every existing timetable and entry for
// the department/semester pair and inserts the new one, assigning the
// next version number.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, tt *models.Timetable, entries []models.TimetableEntry) error {
	if tt.Department == "" || tt.Semester == "" {
		return fmt.Errorf("department and semester are required")
	}
	if tt.ID == "" {
		tt.ID = uuid.NewString()
	}
	if tt.Status == "" {
		tt.Status = models.TimetableStatusDraft
	}
	if len(tt.Meta) == 0 {
		tt.Meta = types.JSONText(`{}`)
	}
	now := time.Now().UTC()
	tt.CreatedAt = now
	tt.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace timetable: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM timetables WHERE department = $1 AND semester = $2`
	if err = tx.GetContext(ctx, &tt.Version, nextVersionQuery, tt.Department, tt.Semester); err != nil {
		return fmt.Errorf("compute next timetable version: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM timetable_entries USING timetables
WHERE timetable_entries.timetable_id = timetables.id AND timetables.department = $1 AND timetables.semester = $2`, tt.Department, tt.Semester); err != nil {
		return fmt.Errorf("delete existing timetable entries: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM timetables WHERE department = $1 AND semester = $2`, tt.Department, tt.Semester); err != nil {
		return fmt.Errorf("delete existing timetables: %w", err)
	}

	const insertTimetable = `INSERT INTO timetables (id, department, semester, version, status, meta, created_at, updated_at)
VALUES (:id, :department, :semester, :version, :status, :meta, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, insertTimetable, tt); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}

	const insertEntry = `INSERT INTO timetable_entries (id, timetable_id, department, semester, day_of_week, session_number, label, subject_code, created_at)
VALUES (:id, :timetable_id, :department, :semester, :day_of_week, :session_number, :label, :subject_code, :created_at)`
	for i := range entries {
		entry := &entries[i]
		entry.TimetableID = tt.ID
		entry.Department = tt.Department
		entry.Semester = tt.Semester
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.CreatedAt = now
		if _, err = sqlx.NamedExecContext(ctx, tx, insertEntry, entry); err != nil {
			return fmt.Errorf("insert timetable entry: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace timetable: %w", err)
	}
	return nil
}

// UpdateStatus transitions a timetable's lifecycle status.
func (r *TimetableRepository) UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error {
	const query = `UPDATE timetables SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update timetable status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
