package engine

// Placer is one of the two alternative theory-placement strategies C3
// and C5 implement. Both run after labs are pinned and before repair
// and validation (spec.md section 4). A Placer never hard-fails:
// generation is best-effort, so any warnings it wants surfaced to the
// caller are returned rather than an error (spec.md section 7 reserves
// hard failure for input validation alone).
type Placer interface {
	Place(g *Grid, subjects []Subject, demand *Demand, cfg Config, src Source) []string
}

// WeightedPlacer drives PlaceWeightedTheory (C3), the default strategy.
type WeightedPlacer struct{}

func (WeightedPlacer) Place(g *Grid, subjects []Subject, demand *Demand, cfg Config, src Source) []string {
	PlaceWeightedTheory(g, subjects, demand, cfg, src)
	return nil
}

// BacktrackingPlacer drives PlaceBacktracking (C5), the exhaustive
// alternative bounded by BacktrackAttemptCap. When the search exhausts
// its attempt budget without a complete assignment, it pads whatever
// Unallocated slots remain with free periods and lets Repair/Validate
// run against the partial result instead of aborting generation.
type BacktrackingPlacer struct{}

func (BacktrackingPlacer) Place(g *Grid, subjects []Subject, demand *Demand, cfg Config, src Source) []string {
	if PlaceBacktracking(g, subjects, demand, cfg, src) {
		return nil
	}
	padRemainingWithFree(g)
	return []string{"backtracking search exhausted its attempt budget; remaining slots were padded with free periods"}
}

// Generate runs the full pipeline (spec.md section 4): build the grid
// and demand (C1), pin lab blocks (C2), run the chosen placer for
// theory hours (C3 or C5), repair (C4), then validate (C6). logMissingLab
// receives one message per subject whose lab block could not be
// confirmed complete during repair; it may be nil.
func Generate(subjects []Subject, requestedFree *int, cfg Config, placer Placer, src Source, logMissingLab func(string)) (*Result, error) {
	if err := ValidatePreferences(cfg); err != nil {
		return nil, err
	}

	built, err := BuildGrid(subjects, requestedFree)
	if err != nil {
		return nil, err
	}
	cfg = NewConfig(cfg)

	warnings := append([]string(nil), built.Warnings...)
	warnings = append(warnings, PlaceLabs(built.Grid, subjects, built.Demand, src)...)
	warnings = append(warnings, placer.Place(built.Grid, subjects, built.Demand, cfg, src)...)

	Repair(built.Grid, subjects, built.Demand, cfg, built.DesiredFreePeriods, src, logMissingLab)

	violations := Validate(built.Grid, subjects, cfg, built.DesiredFreePeriods)

	return &Result{
		Grid:       built.Grid,
		Warnings:   warnings,
		Violations: violations,
	}, nil
}

// GenerateWeighted is the convenience entry point for the default
// weighted-greedy pipeline (C1 -> C2 -> C3 -> C4 -> C6).
func GenerateWeighted(subjects []Subject, requestedFree *int, cfg Config, src Source, logMissingLab func(string)) (*Result, error) {
	return Generate(subjects, requestedFree, cfg, WeightedPlacer{}, src, logMissingLab)
}

// GenerateBacktracking is the convenience entry point for the
// exhaustive backtracking pipeline (C1 -> C2 -> C5 -> C4 -> C6).
func GenerateBacktracking(subjects []Subject, requestedFree *int, cfg Config, src Source, logMissingLab func(string)) (*Result, error) {
	return Generate(subjects, requestedFree, cfg, BacktrackingPlacer{}, src, logMissingLab)
}

// ValidatePreferences rejects any faculty preference that names a
// preferredTime value. The engine only ever acts on preferredDays;
// section 9's open-question resolution treats a supplied preferredTime
// as a caller error rather than a silently ignored field.
func ValidatePreferences(cfg Config) error {
	for _, pref := range cfg.FacultyPreferences {
		if len(pref.PreferredTime) > 0 {
			return ErrPreferredTimeUnsupported
		}
	}
	return nil
}
