package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceLabsWritesOneContiguousBlockPerSubject(t *testing.T) {
	subjects := []Subject{
		{Code: "PHYS", HoursPerWeek: 3, LabRequired: true},
		{Code: "CHEM", HoursPerWeek: 3, LabRequired: true},
	}
	g := NewGrid()
	demand := NewDemand(subjects)
	src := NewSource(42)

	warnings := PlaceLabs(g, subjects, demand, src)
	require.Empty(t, warnings)

	for _, s := range subjects {
		assert.Equal(t, LabBlockLength, g.CountLabTotal(s.Code))
		found := false
		for _, d := range Days {
			row := g.Row(d)
			for i := 0; i+2 < SlotsPerDay; i++ {
				if row[i].Kind == LabSlot && row[i].SubjectCode == s.Code &&
					row[i+1].Kind == LabSlot && row[i+1].SubjectCode == s.Code &&
					row[i+2].Kind == LabSlot && row[i+2].SubjectCode == s.Code {
					found = true
				}
			}
		}
		assert.True(t, found, "expected one contiguous lab block for %s", s.Code)
	}
}

func TestPlaceLabsNeverStraddlesABreak(t *testing.T) {
	subjects := []Subject{{Code: "PHYS", HoursPerWeek: 3, LabRequired: true}}
	g := NewGrid()
	demand := NewDemand(subjects)
	src := NewSource(7)
	PlaceLabs(g, subjects, demand, src)

	for _, d := range Days {
		row := g.Row(d)
		for i := 0; i+2 < SlotsPerDay; i++ {
			if row[i].Kind == LabSlot && (i == 0 || row[i-1].Kind != LabSlot) {
				assert.False(t, IsBreakIndex(i) || IsBreakIndex(i+1) || IsBreakIndex(i+2))
			}
		}
	}
}

func TestPlaceLabsWarnsWhenUnplaceable(t *testing.T) {
	// 20 lab blocks of 3 slots each need 60 slots; the grid only has
	// EffectiveSlots (45) usable non-break slots in total, so at least
	// some blocks must fail regardless of placement order.
	subjects := make([]Subject, 0, 20)
	for i := 0; i < 20; i++ {
		subjects = append(subjects, Subject{Code: string(rune('A' + i%26)) + string(rune('0'+i/26)), HoursPerWeek: 1, LabRequired: true})
	}
	g := NewGrid()
	demand := NewDemand(subjects)
	src := NewSource(1)

	warnings := PlaceLabs(g, subjects, demand, src)
	assert.NotEmpty(t, warnings)
}
