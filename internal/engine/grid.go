package engine

// Demand tracks the remaining theory and lab hours a placer must drive
// to zero for each subject, keyed by subject code (spec.md section 3:
// "use code as the key everywhere internally").
type Demand struct {
	TheoryLeft map[string]int
	LabLeft    map[string]int
}

// NewDemand initialises theoryLeft to hoursPerWeek and labLeft to 3 for
// every lab-required subject, honouring the caller-supplied hours
// (spec.md section 9: the hard-coded-6 variant is not implemented).
func NewDemand(subjects []Subject) *Demand {
	d := &Demand{
		TheoryLeft: make(map[string]int, len(subjects)),
		LabLeft:    make(map[string]int, len(subjects)),
	}
	for _, s := range subjects {
		d.TheoryLeft[s.Code] = s.HoursPerWeek
		if s.LabRequired {
			d.LabLeft[s.Code] = LabBlockLength
		} else {
			d.LabLeft[s.Code] = 0
		}
	}
	return d
}

// Remaining reports whether any subject still has outstanding demand.
func (d *Demand) Remaining() bool {
	for _, v := range d.TheoryLeft {
		if v > 0 {
			return true
		}
	}
	for _, v := range d.LabLeft {
		if v > 0 {
			return true
		}
	}
	return false
}

// BuildResult captures the grid/demand pair C1 produces plus the soft
// failures it logs rather than aborts on (spec.md section 4.1).
type BuildResult struct {
	Grid               *Grid
	Demand             *Demand
	TotalSubjectHours  int
	DesiredFreePeriods int
	Warnings           []string
}

// BuildGrid runs C1: materialises the empty grid, computes subject
// demand, and derives desiredFreePeriods.
func BuildGrid(subjects []Subject, requestedFree *int) (*BuildResult, error) {
	if len(subjects) == 0 {
		return nil, ErrNoSubjects
	}

	total := 0
	labCount := 0
	for _, s := range subjects {
		total += s.HoursPerWeek
		if s.LabRequired {
			labCount++
		}
	}
	total += LabBlockLength * labCount

	var warnings []string
	if total > EffectiveSlots {
		warnings = append(warnings, "infeasible demand: totalSubjectHours exceeds effectiveSlots")
	}

	desired := EffectiveSlots - total
	if requestedFree != nil {
		if *requestedFree < desired {
			desired = *requestedFree
		}
	}
	if desired < 0 {
		desired = 0
		warnings = append(warnings, "desiredFreePeriods clamped to 0: demand exceeds effective slots")
	}

	return &BuildResult{
		Grid:               NewGrid(),
		Demand:             NewDemand(subjects),
		TotalSubjectHours:  total,
		DesiredFreePeriods: desired,
		Warnings:           warnings,
	}, nil
}
