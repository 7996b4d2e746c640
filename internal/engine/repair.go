package engine

// Repair runs the full five-phase post-placement pipeline C4 describes
// (spec.md section 4.4). Each phase leaves the grid's invariants intact:
// breaks stay fixed, lab blocks stay immovable, and no Unallocated slot
// survives phase 1.
func Repair(g *Grid, subjects []Subject, demand *Demand, cfg Config, desired int, src Source, logMissingLab func(string)) {
	Phase1GreedyFill(g, subjects, demand, cfg, desired, src)
	Phase2EnforceFreeTotal(g, subjects, cfg, desired, src)
	Phase3RedistributeFree(g, cfg, src)
	Phase4FixRunsAndCounts(g, subjects, cfg, src)
	Phase5EnsureHours(g, subjects, cfg, src, logMissingLab)
}

// ReducedRepair runs the P3/P5/P4 subset the validator invokes when
// asked to fix an invalid grid rather than just report on it (spec.md
// section 4.6).
func ReducedRepair(g *Grid, subjects []Subject, cfg Config, src Source, logMissingLab func(string)) {
	Phase3RedistributeFree(g, cfg, src)
	Phase5EnsureHours(g, subjects, cfg, src, logMissingLab)
	Phase4FixRunsAndCounts(g, subjects, cfg, src)
}

// Phase1GreedyFill fills every remaining Unallocated slot: write Free
// until desired is reached, then prefer placing outstanding demand,
// falling back to Free when no subject fits (spec.md section 4.4, P1).
func Phase1GreedyFill(g *Grid, subjects []Subject, demand *Demand, cfg Config, desired int, src Source) {
	order := append([]Subject(nil), subjects...)
	freeMade := 0
	for _, d := range Days {
		row := g.Row(d)
		for i := range row {
			if row[i].Kind != Unallocated {
				continue
			}
			if freeMade < desired {
				row[i] = Slot{Kind: Free}
				freeMade++
				continue
			}
			if code, ok := pickDemandSubject(g, d, i, order, demand, cfg.MaxSessionsPerDay, false, src); ok {
				row[i] = Slot{Kind: SubjectSlot, SubjectCode: code}
				demand.TheoryLeft[code]--
				continue
			}
			if code, ok := pickDemandSubject(g, d, i, order, demand, cfg.MaxSessionsPerDay, true, src); ok {
				row[i] = Slot{Kind: SubjectSlot, SubjectCode: code}
				demand.TheoryLeft[code]--
				continue
			}
			row[i] = Slot{Kind: Free}
			freeMade++
		}
	}
}

func pickDemandSubject(g *Grid, d Day, idx int, subjects []Subject, demand *Demand, maxPerDay int, ignoreCap bool, src Source) (string, bool) {
	candidates := append([]Subject(nil), subjects...)
	shuffleSubjects(src, candidates)
	for _, s := range candidates {
		if demand.TheoryLeft[s.Code] <= 0 {
			continue
		}
		if g.WouldExceedRun(d, idx, s.Code) {
			continue
		}
		if !ignoreCap && g.CountSubjectOnDay(d, s.Code) >= maxPerDay {
			continue
		}
		return s.Code, true
	}
	return "", false
}

func shuffleSubjects(src Source, subjects []Subject) {
	src.Shuffle(len(subjects), func(i, j int) { subjects[i], subjects[j] = subjects[j], subjects[i] })
}

// Phase2EnforceFreeTotal forces the grid's total free-period count to
// equal desired exactly (spec.md section 4.4, P2). The spec's
// over/under-allocation bullets describe the same subject-to-free
// conversion under both the F>desired and F<desired headings; that
// cannot be correct for both directions at once (it would walk F
// further from desired, not closer, in one of them). This implements
// the direction-correct pairing instead -- recorded as an Open Question
// resolution in DESIGN.md: F>desired fills surplus Free slots with
// under-allocated subjects (falling back to "Additional Class"); F<desired
// demotes subject slots to Free, biased toward subjects over their
// per-day cap.
func Phase2EnforceFreeTotal(g *Grid, subjects []Subject, cfg Config, desired int, src Source) {
	f := g.TotalFreePeriods()
	if f == desired {
		return
	}
	if f > desired {
		need := f - desired
		need -= fillFreeWithUnderAllocated(g, subjects, cfg, need, src)
		if need > 0 {
			fillFreeWithFallback(g, need, src)
		}
		return
	}
	need := desired - f
	need -= demoteOverCapToFree(g, subjects, cfg, need, src)
	if need > 0 {
		demoteArbitraryToFree(g, need, src)
	}
}

func fillFreeWithUnderAllocated(g *Grid, subjects []Subject, cfg Config, need int, src Source) int {
	type deficit struct {
		code string
		left int
	}
	var deficits []deficit
	for _, s := range subjects {
		placed := g.CountSubjectTotal(s.Code)
		if placed < s.HoursPerWeek {
			deficits = append(deficits, deficit{code: s.Code, left: s.HoursPerWeek - placed})
		}
	}
	src.Shuffle(len(deficits), func(i, j int) { deficits[i], deficits[j] = deficits[j], deficits[i] })

	filled := 0
	for idx := range deficits {
		for deficits[idx].left > 0 && filled < need {
			loc, ok := firstRunSafeFree(g, deficits[idx].code, cfg.MaxSessionsPerDay, true, src)
			if !ok {
				loc, ok = firstRunSafeFree(g, deficits[idx].code, cfg.MaxSessionsPerDay, false, src)
			}
			if !ok {
				break
			}
			g.Set(loc.Day, loc.Index, Slot{Kind: SubjectSlot, SubjectCode: deficits[idx].code})
			deficits[idx].left--
			filled++
		}
		if filled >= need {
			break
		}
	}
	return filled
}

func firstRunSafeFree(g *Grid, code string, maxPerDay int, respectCap bool, src Source) (Location, bool) {
	locs := locationsOfKind(g, Free)
	shuffleLocations(src, locs)
	for _, loc := range locs {
		if g.WouldExceedRun(loc.Day, loc.Index, code) {
			continue
		}
		if respectCap && g.CountSubjectOnDay(loc.Day, code) >= maxPerDay {
			continue
		}
		return loc, true
	}
	return Location{}, false
}

func fillFreeWithFallback(g *Grid, need int, src Source) {
	locs := locationsOfKind(g, Free)
	shuffleLocations(src, locs)
	for i := 0; i < need && i < len(locs); i++ {
		g.Set(locs[i].Day, locs[i].Index, Slot{Kind: Fallback})
	}
}

func demoteOverCapToFree(g *Grid, subjects []Subject, cfg Config, need int, src Source) int {
	type overflow struct {
		day  Day
		code string
	}
	var overflows []overflow
	for _, d := range Days {
		for _, s := range subjects {
			if g.CountSubjectOnDay(d, s.Code) > cfg.MaxSessionsPerDay {
				overflows = append(overflows, overflow{day: d, code: s.Code})
			}
		}
	}
	src.Shuffle(len(overflows), func(i, j int) { overflows[i], overflows[j] = overflows[j], overflows[i] })

	demoted := 0
	for _, of := range overflows {
		if demoted >= need {
			break
		}
		locs := locationsOfSubject(g, of.code)
		for _, loc := range locs {
			if loc.Day != of.day {
				continue
			}
			g.Set(loc.Day, loc.Index, Slot{Kind: Free})
			demoted++
			break
		}
	}
	return demoted
}

func demoteArbitraryToFree(g *Grid, need int, src Source) int {
	locs := locationsOfKind(g, SubjectSlot)
	shuffleLocations(src, locs)
	demoted := 0
	for i := 0; i < need && i < len(locs); i++ {
		g.Set(locs[i].Day, locs[i].Index, Slot{Kind: Free})
		demoted++
	}
	return demoted
}

// Phase3RedistributeFree moves subject assignments from other days into
// any day whose free-period count exceeds MaxFreePerDay, swapping that
// subject's origin slot to Free (spec.md section 4.4, P3).
func Phase3RedistributeFree(g *Grid, cfg Config, src Source) {
	days := append([]Day(nil), Days[:]...)
	shuffleDays(src, days)
	for _, d := range days {
		for g.CountFreeOnDay(d) > MaxFreePerDay {
			if !tryRedistributeOneInto(g, d, cfg, src) {
				break
			}
		}
	}
}

func tryRedistributeOneInto(g *Grid, target Day, cfg Config, src Source) bool {
	freeLocs := locationsOfKind(g, Free)
	var targetFree []int
	for _, loc := range freeLocs {
		if loc.Day == target {
			targetFree = append(targetFree, loc.Index)
		}
	}
	if len(targetFree) == 0 {
		return false
	}
	shuffleInts(src, targetFree)
	freeIdx := targetFree[0]

	sources := append([]Day(nil), Days[:]...)
	shuffleDays(src, sources)
	for _, e := range sources {
		if e == target || g.CountFreeOnDay(e) >= MaxFreePerDay {
			continue
		}
		subjLocs := locationsOfKind(g, SubjectSlot)
		var onE []int
		for _, loc := range subjLocs {
			if loc.Day == e {
				onE = append(onE, loc.Index)
			}
		}
		shuffleInts(src, onE)
		for _, idx := range onE {
			code := g.Get(e, idx).SubjectCode
			if g.CountSubjectOnDay(target, code) >= cfg.MaxSessionsPerDay {
				continue
			}
			if g.WouldExceedRun(target, freeIdx, code) {
				continue
			}
			g.Set(target, freeIdx, Slot{Kind: SubjectSlot, SubjectCode: code})
			g.Set(e, idx, Slot{Kind: Free})
			return true
		}
	}
	return false
}

// Phase4FixRunsAndCounts breaks any 3-in-a-row identical non-lab label
// and demotes trailing per-day overflow occurrences (spec.md section
// 4.4, P4).
func Phase4FixRunsAndCounts(g *Grid, subjects []Subject, cfg Config, src Source) {
	fixConsecutiveRuns(g, subjects, cfg, src)
	fixPerDayCounts(g, cfg)
	fixConsecutiveRuns(g, subjects, cfg, src)
}

func labelKey(s Slot) string {
	switch s.Kind {
	case SubjectSlot:
		return "S:" + s.SubjectCode
	case Free:
		return "FREE"
	case Fallback:
		return "FALLBACK"
	default:
		return ""
	}
}

func fixConsecutiveRuns(g *Grid, subjects []Subject, cfg Config, src Source) {
	for _, d := range Days {
		row := g.Row(d)
		for i := 0; i+2 < SlotsPerDay; i++ {
			if row[i].Kind == Break || row[i+1].Kind == Break || row[i+2].Kind == Break {
				continue
			}
			if row[i].Kind == LabSlot || row[i+1].Kind == LabSlot || row[i+2].Kind == LabSlot {
				continue
			}
			k0, k1, k2 := labelKey(row[i]), labelKey(row[i+1]), labelKey(row[i+2])
			if k0 == "" || k0 != k1 || k1 != k2 {
				continue
			}
			replaceThirdOccurrence(g, d, i+2, row[i+2], subjects, cfg, src)
		}
	}
}

func replaceThirdOccurrence(g *Grid, d Day, idx int, current Slot, subjects []Subject, cfg Config, src Source) {
	candidates := append([]Subject(nil), subjects...)
	shuffleSubjects(src, candidates)
	for _, s := range candidates {
		if current.Kind == SubjectSlot && current.SubjectCode == s.Code {
			continue
		}
		if g.CountSubjectOnDay(d, s.Code) >= cfg.MaxSessionsPerDay {
			continue
		}
		if g.WouldExceedRun(d, idx, s.Code) {
			continue
		}
		g.Set(d, idx, Slot{Kind: SubjectSlot, SubjectCode: s.Code})
		return
	}
	g.Set(d, idx, Slot{Kind: Free})
}

func fixPerDayCounts(g *Grid, cfg Config) {
	for _, d := range Days {
		row := g.Row(d)
		counts := map[string]int{}
		for i := range row {
			if row[i].Kind == SubjectSlot {
				counts[row[i].SubjectCode]++
			}
		}
		for code, count := range counts {
			excess := count - cfg.MaxSessionsPerDay
			for i := SlotsPerDay - 1; i >= 0 && excess > 0; i-- {
				if row[i].Kind == SubjectSlot && row[i].SubjectCode == code {
					row[i] = Slot{Kind: Free}
					excess--
				}
			}
		}
	}
}

// Phase5EnsureHours recomputes actual placed hours per subject and
// fills any theory shortfall from Free slots; missing lab blocks are
// logged only, never repaired here (spec.md section 4.4, P5).
func Phase5EnsureHours(g *Grid, subjects []Subject, cfg Config, src Source, logMissingLab func(string)) {
	for _, s := range subjects {
		placed := g.CountSubjectTotal(s.Code)
		if placed < s.HoursPerWeek {
			fillSubjectIntoFree(g, s.Code, s.HoursPerWeek-placed, cfg.MaxSessionsPerDay, src)
		}
		if s.LabRequired && logMissingLab != nil {
			labCount := g.CountLabTotal(s.Code)
			if labCount == 0 {
				logMissingLab("missing lab block for subject " + s.Code)
			} else if labCount != LabBlockLength {
				logMissingLab("incomplete lab block for subject " + s.Code)
			}
		}
	}
}

func fillSubjectIntoFree(g *Grid, code string, need int, maxPerDay int, src Source) int {
	locs := locationsOfKind(g, Free)
	shuffleLocations(src, locs)
	filled := 0
	for _, loc := range locs {
		if filled >= need {
			break
		}
		if g.CountSubjectOnDay(loc.Day, code) >= maxPerDay {
			continue
		}
		if g.WouldExceedRun(loc.Day, loc.Index, code) {
			continue
		}
		g.Set(loc.Day, loc.Index, Slot{Kind: SubjectSlot, SubjectCode: code})
		filled++
	}
	return filled
}
