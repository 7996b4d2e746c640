package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase1GreedyFillLeavesNoUnallocated(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 4}}
	g := NewGrid()
	demand := NewDemand(subjects)
	cfg := NewConfig(Config{})
	src := NewSource(11)

	Phase1GreedyFill(g, subjects, demand, cfg, 10, src)

	assert.Equal(t, 0, g.CountUnallocated())
}

func TestPhase2EnforceFreeTotalRaisesShortfall(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 4}}
	g := NewGrid()
	// Fill everything with Free first, well above desired.
	for _, d := range Days {
		row := g.Row(d)
		for i := range row {
			if row[i].Kind == Unallocated {
				row[i] = Slot{Kind: Free}
			}
		}
	}
	cfg := NewConfig(Config{})
	src := NewSource(5)

	Phase2EnforceFreeTotal(g, subjects, cfg, 5, src)

	assert.Equal(t, 5, g.TotalFreePeriods())
}

func TestPhase2EnforceFreeTotalLowersSurplus(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 4}}
	g := NewGrid()
	for _, d := range Days {
		row := g.Row(d)
		filled := 0
		for i := range row {
			if row[i].Kind != Unallocated {
				continue
			}
			if filled < 1 {
				row[i] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
				filled++
			} else {
				row[i] = Slot{Kind: Free}
			}
		}
	}
	before := g.TotalFreePeriods()
	cfg := NewConfig(Config{})
	src := NewSource(6)

	target := before - 3
	Phase2EnforceFreeTotal(g, subjects, cfg, target, src)

	assert.Equal(t, target, g.TotalFreePeriods())
}

func TestPhase3RedistributeFreeRespectsPerDayCap(t *testing.T) {
	g := NewGrid()
	// Load Monday with Free everywhere overwritable, and spread MATH
	// across the other four days so there's something to pull in.
	monRow := g.Row(Monday)
	for i := range monRow {
		if monRow[i].Kind == Unallocated {
			monRow[i] = Slot{Kind: Free}
		}
	}
	for _, d := range []Day{Tuesday, Wednesday, Thursday, Friday} {
		row := g.Row(d)
		placed := 0
		for i := range row {
			if row[i].Kind == Unallocated && placed < 1 {
				row[i] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
				placed++
			} else if row[i].Kind == Unallocated {
				row[i] = Slot{Kind: Free}
			}
		}
	}
	before := g.CountFreeOnDay(Monday)
	cfg := NewConfig(Config{MaxSessionsPerDay: 2})
	src := NewSource(2)

	Phase3RedistributeFree(g, cfg, src)

	assert.LessOrEqual(t, g.CountFreeOnDay(Monday), before)
}

func TestFixConsecutiveRunsBreaksThreeInARow(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 6}, {Code: "ENG", HoursPerWeek: 6}}
	g := NewGrid()
	row := g.Row(Monday)
	row[0] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
	row[1] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
	row[2] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
	cfg := NewConfig(Config{MaxSessionsPerDay: 3})
	src := NewSource(4)

	fixConsecutiveRuns(g, subjects, cfg, src)

	assert.False(t, g.WouldExceedRunPresent(Monday))
}

// WouldExceedRunPresent is a tiny test-only helper checking the row no
// longer has a same-label run longer than MaxConsecutive.
func (g *Grid) WouldExceedRunPresent(d Day) bool {
	row := g.Row(d)
	for i := 0; i+MaxConsecutive < SlotsPerDay; i++ {
		if row[i].Kind != SubjectSlot {
			continue
		}
		code := row[i].SubjectCode
		run := 1
		for j := i + 1; j < SlotsPerDay && row[j].Kind == SubjectSlot && row[j].SubjectCode == code; j++ {
			run++
		}
		if run > MaxConsecutive {
			return true
		}
	}
	return false
}

func TestFixPerDayCountsDemotesExcessToFree(t *testing.T) {
	g := NewGrid()
	row := g.Row(Monday)
	row[0] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
	row[1] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
	row[2] = Slot{Kind: Free}
	row[4] = Slot{Kind: SubjectSlot, SubjectCode: "MATH"}
	cfg := NewConfig(Config{MaxSessionsPerDay: 2})

	fixPerDayCounts(g, cfg)

	assert.LessOrEqual(t, g.CountSubjectOnDay(Monday, "MATH"), 2)
}

func TestPhase5EnsureHoursFillsShortfallFromFree(t *testing.T) {
	subjects := []Subject{{Code: "MATH", HoursPerWeek: 3}}
	g := NewGrid()
	row := g.Row(Monday)
	for i := range row {
		if row[i].Kind == Unallocated {
			row[i] = Slot{Kind: Free}
		}
	}
	for _, d := range []Day{Tuesday, Wednesday, Thursday, Friday} {
		r := g.Row(d)
		for i := range r {
			if r[i].Kind == Unallocated {
				r[i] = Slot{Kind: Free}
			}
		}
	}
	cfg := NewConfig(Config{MaxSessionsPerDay: 2})
	src := NewSource(3)

	Phase5EnsureHours(g, subjects, cfg, src, nil)

	assert.Equal(t, 3, g.CountSubjectTotal("MATH"))
}

func TestPhase5EnsureHoursLogsMissingLab(t *testing.T) {
	subjects := []Subject{{Code: "PHYS", HoursPerWeek: 0, LabRequired: true}}
	g := NewGrid()
	cfg := NewConfig(Config{})
	src := NewSource(3)

	var messages []string
	Phase5EnsureHours(g, subjects, cfg, src, func(msg string) { messages = append(messages, msg) })

	assert.NotEmpty(t, messages)
}
