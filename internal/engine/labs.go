package engine

// PlaceLabs runs C2: places each lab-required subject as one contiguous
// 3-slot block, preferring a day with no lab yet, falling back to any
// day if no lab-free day can host the block (spec.md section 4.2).
func PlaceLabs(g *Grid, subjects []Subject, demand *Demand, src Source) []string {
	var warnings []string
	labDays := make(map[Day]bool, len(Days))

	for _, s := range subjects {
		if !s.LabRequired {
			continue
		}
		if !placeOneLab(g, s, labDays, src, false) {
			if !placeOneLab(g, s, labDays, src, true) {
				warnings = append(warnings, "unplaceable lab: "+s.Code)
				continue
			}
		}
		demand.LabLeft[s.Code] = 0
	}
	return warnings
}

func placeOneLab(g *Grid, s Subject, labDays map[Day]bool, src Source, allowSharedDay bool) bool {
	days := append([]Day(nil), Days[:]...)
	shuffleDays(src, days)

	for _, d := range days {
		if !allowSharedDay && labDays[d] {
			continue
		}
		starts := candidateLabStarts(g, d)
		if len(starts) == 0 {
			continue
		}
		shuffleInts(src, starts)
		start := starts[0]
		writeLabBlock(g, d, start, s)
		labDays[d] = true
		return true
	}
	return false
}

// candidateLabStarts enumerates start indices s in 0..8 such that
// {s, s+1, s+2} contains no break index and every slot is writable.
func candidateLabStarts(g *Grid, d Day) []int {
	var starts []int
	for s := 0; s <= SlotsPerDay-LabBlockLength; s++ {
		ok := true
		for k := 0; k < LabBlockLength; k++ {
			idx := s + k
			if IsBreakIndex(idx) || !g.Get(d, idx).IsOverwritable() {
				ok = false
				break
			}
		}
		if ok {
			starts = append(starts, s)
		}
	}
	return starts
}

func writeLabBlock(g *Grid, d Day, start int, s Subject) {
	for k := 0; k < LabBlockLength; k++ {
		g.Set(d, start+k, Slot{Kind: LabSlot, SubjectCode: s.Code})
	}
}
