package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridFixesBreaks(t *testing.T) {
	g := NewGrid()
	for _, d := range Days {
		assert.Equal(t, Break, g.Get(d, ShortBreakIndex).Kind)
		assert.Equal(t, ShortBreak, g.Get(d, ShortBreakIndex).BreakKind)
		assert.Equal(t, Break, g.Get(d, LongBreakIndex).Kind)
		assert.Equal(t, LongBreak, g.Get(d, LongBreakIndex).BreakKind)
		for i := 0; i < SlotsPerDay; i++ {
			if IsBreakIndex(i) {
				continue
			}
			assert.Equal(t, Unallocated, g.Get(d, i).Kind)
		}
	}
}

func TestBuildGridRejectsEmptySubjects(t *testing.T) {
	_, err := BuildGrid(nil, nil)
	assert.ErrorIs(t, err, ErrNoSubjects)
}

func TestBuildGridDerivesDesiredFreePeriods(t *testing.T) {
	subjects := []Subject{
		{Code: "MATH", HoursPerWeek: 6},
		{Code: "PHYS", HoursPerWeek: 5, LabRequired: true},
	}
	built, err := BuildGrid(subjects, nil)
	require.NoError(t, err)
	assert.Equal(t, 14, built.TotalSubjectHours) // 6 + 5 + 3
	assert.Equal(t, EffectiveSlots-14, built.DesiredFreePeriods)
	assert.Empty(t, built.Warnings)
}

func TestBuildGridHonoursExplicitRequestedFreeWhenSmaller(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 6}}
	requested := 3
	built, err := BuildGrid(subjects, &requested)
	require.NoError(t, err)
	assert.Equal(t, 3, built.DesiredFreePeriods)
}

func TestBuildGridClampsInfeasibleDemand(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 60}}
	built, err := BuildGrid(subjects, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, built.DesiredFreePeriods)
	assert.NotEmpty(t, built.Warnings)
}

func TestWouldExceedRunDetectsThirdConsecutive(t *testing.T) {
	g := NewGrid()
	g.Set(Monday, 0, Slot{Kind: SubjectSlot, SubjectCode: "MATH"})
	g.Set(Monday, 1, Slot{Kind: SubjectSlot, SubjectCode: "MATH"})
	assert.True(t, g.WouldExceedRun(Monday, 2, "MATH"))
	assert.False(t, g.WouldExceedRun(Monday, 2, "PHYS"))
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid()
	g.Set(Monday, 0, Slot{Kind: Free})
	clone := g.Clone()
	clone.Set(Monday, 0, Slot{Kind: SubjectSlot, SubjectCode: "MATH"})
	assert.Equal(t, Free, g.Get(Monday, 0).Kind)
	assert.Equal(t, SubjectSlot, clone.Get(Monday, 0).Kind)
}
