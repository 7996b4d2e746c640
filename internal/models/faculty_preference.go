package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// FacultyPreference stores a faculty member's preferred teaching days.
// PreferredTime is retained purely for storage/passthrough symmetry
// with what callers submit; the generator rejects any request where it
// is non-empty rather than acting on it.
type FacultyPreference struct {
	ID            string         `db:"id" json:"id"`
	Faculty       string         `db:"faculty" json:"faculty"`
	PreferredDays types.JSONText `db:"preferred_days" json:"preferred_days"`
	PreferredTime types.JSONText `db:"preferred_time" json:"preferred_time"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
