package models

import "time"

// Subject is one weekly course in the catalog a timetable is generated
// against.
type Subject struct {
	ID               string    `db:"id" json:"id"`
	Code             string    `db:"code" json:"code"`
	Name             string    `db:"name" json:"name"`
	Faculty          string    `db:"faculty" json:"faculty"`
	Department       string    `db:"department" json:"department"`
	HoursPerWeek     int       `db:"hours_per_week" json:"hours_per_week"`
	LabRequired      bool      `db:"lab_required" json:"lab_required"`
	AlternateFaculty string    `db:"alternate_faculty" json:"alternate_faculty,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Department string
	Faculty    string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
