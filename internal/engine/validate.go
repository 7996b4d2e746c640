package engine

import "fmt"

// Validate runs C6: checks a finished grid against every invariant
// spec.md section 4.6 names, returning one violation message per
// broken invariant. An empty result means the grid is valid.
func Validate(g *Grid, subjects []Subject, cfg Config, desired int) []string {
	var violations []string

	if total := g.TotalFreePeriods(); total != desired {
		violations = append(violations, fmt.Sprintf("total free periods %d does not equal desired %d", total, desired))
	}

	for _, d := range Days {
		if free := g.CountFreeOnDay(d); free > MaxFreePerDay {
			violations = append(violations, fmt.Sprintf("%s has %d free periods, exceeding the per-day cap of %d", d, free, MaxFreePerDay))
		}
	}

	for _, s := range subjects {
		for _, d := range Days {
			if count := g.CountSubjectOnDay(d, s.Code); count > cfg.MaxSessionsPerDay {
				violations = append(violations, fmt.Sprintf("subject %s has %d sessions on %s, exceeding the per-day cap of %d", s.Code, count, d, cfg.MaxSessionsPerDay))
			}
		}
		if placed := g.CountSubjectTotal(s.Code); placed != s.HoursPerWeek {
			violations = append(violations, fmt.Sprintf("subject %s has %d weekly theory sessions, expected %d", s.Code, placed, s.HoursPerWeek))
		}
		if s.LabRequired {
			if labHours := g.CountLabTotal(s.Code); labHours != LabBlockLength {
				violations = append(violations, fmt.Sprintf("subject %s has %d lab sessions, expected a single %d-slot block", s.Code, labHours, LabBlockLength))
			}
		}
	}

	violations = append(violations, checkRuns(g)...)
	violations = append(violations, checkUnallocated(g)...)

	return violations
}

func checkRuns(g *Grid) []string {
	var out []string
	for _, d := range Days {
		row := g.Row(d)
		for i := 0; i+MaxConsecutive < SlotsPerDay; i++ {
			code := row[i].SubjectCode
			if row[i].Kind != SubjectSlot {
				continue
			}
			run := 1
			for j := i + 1; j < SlotsPerDay && row[j].Kind == SubjectSlot && row[j].SubjectCode == code; j++ {
				run++
			}
			if run > MaxConsecutive {
				out = append(out, fmt.Sprintf("subject %s runs %d consecutive sessions on %s starting at slot %d", code, run, d, i+1))
			}
		}
	}
	return out
}

func checkUnallocated(g *Grid) []string {
	if n := g.CountUnallocated(); n > 0 {
		return []string{fmt.Sprintf("%d slots remain unallocated", n)}
	}
	return nil
}

// ValidateAndRepair runs Validate; if violations exist it applies the
// validator's reduced repair (P3, P5, P4) once and revalidates, per
// spec.md section 4.6's "may optionally run a reduced repair" clause.
func ValidateAndRepair(g *Grid, subjects []Subject, cfg Config, desired int, src Source, logMissingLab func(string)) ([]string, bool) {
	violations := Validate(g, subjects, cfg, desired)
	if len(violations) == 0 {
		return nil, false
	}
	ReducedRepair(g, subjects, cfg, src, logMissingLab)
	return Validate(g, subjects, cfg, desired), true
}
