package engine

// Location addresses one grid cell.
type Location struct {
	Day   Day
	Index int
}

func locationsOfKind(g *Grid, kind Kind) []Location {
	var locs []Location
	for _, d := range Days {
		row := g.Row(d)
		for i := range row {
			if row[i].Kind == kind {
				locs = append(locs, Location{Day: d, Index: i})
			}
		}
	}
	return locs
}

func locationsOfSubject(g *Grid, code string) []Location {
	var locs []Location
	for _, d := range Days {
		row := g.Row(d)
		for i := range row {
			if row[i].Kind == SubjectSlot && row[i].SubjectCode == code {
				locs = append(locs, Location{Day: d, Index: i})
			}
		}
	}
	return locs
}

func shuffleLocations(src Source, locs []Location) {
	src.Shuffle(len(locs), func(i, j int) { locs[i], locs[j] = locs[j], locs[i] })
}

// CountSubjectTotal counts theory (non-lab) occurrences of a subject
// across the whole grid.
func (g *Grid) CountSubjectTotal(code string) int {
	total := 0
	for _, d := range Days {
		total += g.CountSubjectOnDay(d, code)
	}
	return total
}

// CountLabTotal counts lab-labelled occurrences of a subject across the
// whole grid.
func (g *Grid) CountLabTotal(code string) int {
	total := 0
	for _, d := range Days {
		row := g.Row(d)
		for i := range row {
			if row[i].Kind == LabSlot && row[i].SubjectCode == code {
				total++
			}
		}
	}
	return total
}
