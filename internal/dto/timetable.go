package dto

// SubjectInput is one caller-supplied subject to schedule.
type SubjectInput struct {
	Code             string `json:"code" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Faculty          string `json:"faculty" validate:"required"`
	HoursPerWeek     int    `json:"hoursPerWeek" validate:"required,min=1,max=20"`
	LabRequired      bool   `json:"labRequired"`
	Department       string `json:"department"`
	AlternateFaculty string `json:"alternateFaculty"`
}

// FacultyPreferenceInput biases a faculty member's placements toward
// preferred weekdays. PreferredTime is accepted on the wire so a
// caller's request round-trips, but the generator rejects the request
// outright when it is non-empty (section 9's open-question resolution).
type FacultyPreferenceInput struct {
	Faculty       string   `json:"faculty" validate:"required"`
	PreferredDays []string `json:"preferredDays" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
	PreferredTime []string `json:"preferredTime"`
}

// GenerateTimetableRequest instructs the generator to build a weekly
// timetable proposal for a department/semester pair.
type GenerateTimetableRequest struct {
	Department         string                   `json:"department" validate:"required"`
	Semester           string                   `json:"semester" validate:"required"`
	Strategy           string                   `json:"strategy" validate:"omitempty,oneof=weighted backtracking"`
	MaxSessionsPerDay  int                      `json:"maxSessionsPerDay" validate:"omitempty,min=1,max=6"`
	DesiredFreePeriods *int                     `json:"desiredFreePeriods" validate:"omitempty,min=0"`
	Subjects           []SubjectInput           `json:"subjects" validate:"required,min=1,dive"`
	FacultyPreferences []FacultyPreferenceInput `json:"facultyPreferences" validate:"omitempty,dive"`
	Seed               *int64                   `json:"seed"`
}

// TimetableRow is one rendered (day, session, label) cell.
type TimetableRow struct {
	DayOfWeek     string `json:"dayOfWeek"`
	SessionNumber int    `json:"sessionNumber"`
	Label         string `json:"label"`
}

// GenerateTimetableResponse returns the built proposal along with any
// soft warnings and hard violations the validator found.
type GenerateTimetableResponse struct {
	ProposalID string         `json:"proposalId"`
	Rows       []TimetableRow `json:"rows"`
	Warnings   []string       `json:"warnings,omitempty"`
	Violations []string       `json:"violations,omitempty"`
}

// SaveTimetableRequest persists a previously generated proposal.
type SaveTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	Publish    bool   `json:"publish"`
}

// TimetableQuery filters timetable lookups by department and semester.
type TimetableQuery struct {
	Department string `form:"department" json:"department" validate:"required"`
	Semester   string `form:"semester" json:"semester" validate:"required"`
}

// TimetableResponse is a persisted timetable rendered back out.
type TimetableResponse struct {
	ID         string         `json:"id"`
	Department string         `json:"department"`
	Semester   string         `json:"semester"`
	Version    int            `json:"version"`
	Status     string         `json:"status"`
	Rows       []TimetableRow `json:"rows"`
}

// ValidateTimetableRequest re-checks a standalone set of rows without
// persisting anything, used by the CLI's validate subcommand.
type ValidateTimetableRequest struct {
	Subjects           []SubjectInput `json:"subjects" validate:"required,min=1,dive"`
	MaxSessionsPerDay  int            `json:"maxSessionsPerDay" validate:"omitempty,min=1,max=6"`
	DesiredFreePeriods *int           `json:"desiredFreePeriods" validate:"omitempty,min=0"`
	Rows               []TimetableRow `json:"rows" validate:"required,min=1,dive"`
}
