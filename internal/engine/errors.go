package engine

import "errors"

// ErrNoSubjects is the sole hard-fail condition (spec.md section 7:
// "Input invalid: empty or null subject list -> abort").
var ErrNoSubjects = errors.New("engine: no subjects supplied")

// ErrPreferredTimeUnsupported is returned when a FacultyPreference
// requests PreferredTime handling. spec.md section 9 forbids silently
// dropping the field: either implement it or reject it, and this
// engine rejects it.
var ErrPreferredTimeUnsupported = errors.New("engine: facultyPreference.preferredTime is not applied by this engine and must be omitted")
