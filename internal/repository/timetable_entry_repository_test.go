package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimetableEntryRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableEntryRepositoryListByTimetable(t *testing.T) {
	db, mock, cleanup := newTimetableEntryRepoMock(t)
	defer cleanup()
	repo := NewTimetableEntryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "timetable_id", "department", "semester", "day_of_week", "session_number", "label", "subject_code", "created_at"}).
		AddRow("entry-1", "tt-1", "Mathematics", "Fall 2026", 0, 1, "Ada Lovelace - Calculus I", "MATH101", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, timetable_id, department, semester, day_of_week, session_number, label, subject_code, created_at")).
		WithArgs("tt-1").
		WillReturnRows(rows)

	entries, err := repo.ListByTimetable(context.Background(), "tt-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "MATH101", *entries[0].SubjectCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
