package engine

// PlaceBacktracking runs C5: a recursive CSP search over the grid's
// remaining Unallocated slots, as an alternative to the weighted greedy
// placer (spec.md section 4.5). Lab-required subjects are never
// assigned here -- PlaceLabs has already pinned their blocks, and
// section 9's open-question resolution forbids this placer from
// touching lab subjects at all, even for their theory hours, to keep
// the two placers' division of labour unambiguous.
func PlaceBacktracking(g *Grid, subjects []Subject, demand *Demand, cfg Config, src Source) bool {
	var nonLab []Subject
	for _, s := range subjects {
		if !s.LabRequired {
			nonLab = append(nonLab, s)
		}
	}

	locs := pendingUnallocated(g)
	shuffleLocations(src, locs)

	attempts := 0
	return backtrackFill(g, nonLab, demand, cfg, locs, 0, &attempts, src)
}

func pendingUnallocated(g *Grid) []Location {
	return locationsOfKind(g, Unallocated)
}

func backtrackFill(g *Grid, subjects []Subject, demand *Demand, cfg Config, locs []Location, pos int, attempts *int, src Source) bool {
	if pos >= len(locs) {
		return !demand.Remaining()
	}
	*attempts++
	if *attempts > BacktrackAttemptCap {
		return false
	}

	loc := locs[pos]
	candidates := backtrackCandidates(g, subjects, demand, cfg, loc)
	shuffleSubjects(src, candidates)

	for _, s := range candidates {
		g.Set(loc.Day, loc.Index, Slot{Kind: SubjectSlot, SubjectCode: s.Code})
		demand.TheoryLeft[s.Code]--
		if backtrackFill(g, subjects, demand, cfg, locs, pos+1, attempts, src) {
			return true
		}
		demand.TheoryLeft[s.Code]++
		g.Set(loc.Day, loc.Index, Slot{Kind: Unallocated})
	}

	g.Set(loc.Day, loc.Index, Slot{Kind: Free})
	if backtrackFill(g, subjects, demand, cfg, locs, pos+1, attempts, src) {
		return true
	}
	g.Set(loc.Day, loc.Index, Slot{Kind: Unallocated})
	return false
}

// padRemainingWithFree fills every slot backtrackFill left Unallocated
// with a free period, so a best-effort partial assignment still reaches
// Repair/Validate instead of aborting generation outright.
func padRemainingWithFree(g *Grid) {
	for _, loc := range locationsOfKind(g, Unallocated) {
		g.Set(loc.Day, loc.Index, Slot{Kind: Free})
	}
}

func backtrackCandidates(g *Grid, subjects []Subject, demand *Demand, cfg Config, loc Location) []Subject {
	var out []Subject
	for _, s := range subjects {
		if demand.TheoryLeft[s.Code] <= 0 {
			continue
		}
		if g.CountSubjectOnDay(loc.Day, s.Code) >= cfg.MaxSessionsPerDay {
			continue
		}
		if g.WouldExceedRun(loc.Day, loc.Index, s.Code) {
			continue
		}
		out = append(out, s)
	}
	return out
}
