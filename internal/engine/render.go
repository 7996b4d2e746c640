package engine

// Row is one rendered (day, sessionNumber, label) triple, sessionNumber
// in 1..11 per spec.md section 3.
type Row struct {
	Day           Day
	SessionNumber int
	Label         string
}

// Render flattens the grid into the 55-row output spec.md section 6
// describes, looking up display labels from the subject catalog by
// code. No UNALLOCATED label should ever appear in the output; Render
// falls back to FallbackLabel if it somehow does, rather than panic.
func Render(g *Grid, subjects []Subject) []Row {
	byCode := make(map[string]Subject, len(subjects))
	for _, s := range subjects {
		byCode[s.Code] = s
	}

	rows := make([]Row, 0, len(Days)*SlotsPerDay)
	for _, d := range Days {
		row := g.Row(d)
		for i := range row {
			rows = append(rows, Row{Day: d, SessionNumber: i + 1, Label: renderSlot(row[i], byCode)})
		}
	}
	return rows
}

func renderSlot(s Slot, byCode map[string]Subject) string {
	switch s.Kind {
	case Break:
		if s.BreakKind == ShortBreak {
			return ShortBreakLabel
		}
		return LongBreakLabel
	case Free:
		return FreePeriodLabel
	case SubjectSlot:
		subj, ok := byCode[s.SubjectCode]
		if !ok {
			return FallbackLabel
		}
		if s.AltFaculty != "" {
			return s.AltFaculty + " - " + subj.Name
		}
		return subj.DisplayLabel()
	case LabSlot:
		subj, ok := byCode[s.SubjectCode]
		if !ok {
			return FallbackLabel
		}
		return subj.LabLabel()
	case Fallback:
		return FallbackLabel
	default:
		return FallbackLabel
	}
}
