package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBacktrackingFillsEveryUnallocatedSlot(t *testing.T) {
	subjects := []Subject{
		{Code: "MATH", HoursPerWeek: 4},
		{Code: "ENG", HoursPerWeek: 4},
	}
	built, err := BuildGrid(subjects, nil)
	require.NoError(t, err)
	cfg := NewConfig(Config{MaxSessionsPerDay: 2})
	src := NewSource(42)

	ok := PlaceBacktracking(built.Grid, subjects, built.Demand, cfg, src)

	require.True(t, ok)
	assert.Equal(t, 0, built.Grid.CountUnallocated())
}

func TestPlaceBacktrackingNeverAssignsLabRequiredSubjects(t *testing.T) {
	subjects := []Subject{
		{Code: "PHYS", HoursPerWeek: 2, LabRequired: true},
		{Code: "MATH", HoursPerWeek: 2},
	}
	built, err := BuildGrid(subjects, nil)
	require.NoError(t, err)
	cfg := NewConfig(Config{MaxSessionsPerDay: 2})
	src := NewSource(3)

	PlaceLabs(built.Grid, subjects, built.Demand, src)
	PlaceBacktracking(built.Grid, subjects, built.Demand, cfg, src)

	// PHYS's theory hours are never touched by the backtracking placer;
	// only its pre-placed lab block should carry its code.
	theoryOnly := 0
	for _, d := range Days {
		theoryOnly += built.Grid.CountSubjectOnDay(d, "PHYS")
	}
	assert.Equal(t, 0, theoryOnly)
}

func TestPlaceBacktrackingRespectsPerDayCap(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 6}}
	built, err := BuildGrid(subjects, nil)
	require.NoError(t, err)
	cfg := NewConfig(Config{MaxSessionsPerDay: 2})
	src := NewSource(9)

	PlaceBacktracking(built.Grid, subjects, built.Demand, cfg, src)

	for _, d := range Days {
		assert.LessOrEqual(t, built.Grid.CountSubjectOnDay(d, "MATH"), 2)
	}
}
