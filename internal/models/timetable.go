package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimetableStatus represents lifecycle phases for a generated timetable.
type TimetableStatus string

const (
	TimetableStatusDraft     TimetableStatus = "DRAFT"
	TimetableStatusPublished TimetableStatus = "PUBLISHED"
	TimetableStatusArchived  TimetableStatus = "ARCHIVED"
)

// Timetable is a versioned weekly timetable for a department/semester
// pair. ReplaceAll persistence means only one row per (department,
// semester) is ever live; Version increments on every replace.
type Timetable struct {
	ID         string          `db:"id" json:"id"`
	Department string          `db:"department" json:"department"`
	Semester   string          `db:"semester" json:"semester"`
	Version    int             `db:"version" json:"version"`
	Status     TimetableStatus `db:"status" json:"status"`
	Meta       types.JSONText  `db:"meta" json:"meta"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// TimetableEntry is one of the 55 (day, session) cells belonging to a
// Timetable. Department and Semester are copied from the generation
// request onto every row so a stored entry is self-describing without
// a join back to its parent Timetable.
type TimetableEntry struct {
	ID            string    `db:"id" json:"id"`
	TimetableID   string    `db:"timetable_id" json:"timetable_id"`
	Department    string    `db:"department" json:"department"`
	Semester      string    `db:"semester" json:"semester"`
	DayOfWeek     int       `db:"day_of_week" json:"day_of_week"`
	SessionNumber int       `db:"session_number" json:"session_number"`
	Label         string    `db:"label" json:"label"`
	SubjectCode   *string   `db:"subject_code" json:"subject_code,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// TimetableQuery filters timetable lookups by department and semester.
type TimetableQuery struct {
	Department string
	Semester   string
}
