package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/internal/engine"
)

func newValidateCommand() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Re-run the validator against a previously generated timetable",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}

			var req dto.ValidateTimetableRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("parse validate request: %w", err)
			}

			subjects := toEngineSubjects(req.Subjects)
			grid, err := rowsToGrid(req.Rows, subjects)
			if err != nil {
				return err
			}

			cfg := engine.NewConfig(engine.Config{MaxSessionsPerDay: req.MaxSessionsPerDay})
			desired := req.DesiredFreePeriods
			if desired == nil {
				d := grid.TotalFreePeriods()
				desired = &d
			}

			violations := engine.Validate(grid, subjects, cfg, *desired)
			if len(violations) == 0 {
				fmt.Fprintln(os.Stdout, "PASS: no violations")
				return nil
			}

			fmt.Fprintf(os.Stdout, "FAIL: %d violation(s)\n", len(violations))
			for _, v := range violations {
				fmt.Fprintf(os.Stdout, "  - %s\n", v)
			}
			os.Exit(1)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "path to a JSON ValidateTimetableRequest, or - for stdin")
	return cmd
}

func toEngineSubjects(inputs []dto.SubjectInput) []engine.Subject {
	subjects := make([]engine.Subject, len(inputs))
	for i, in := range inputs {
		subjects[i] = engine.Subject{
			Code:             in.Code,
			Name:             in.Name,
			Faculty:          in.Faculty,
			HoursPerWeek:     in.HoursPerWeek,
			LabRequired:      in.LabRequired,
			Department:       in.Department,
			AlternateFaculty: in.AlternateFaculty,
		}
	}
	return subjects
}

// rowsToGrid reconstructs a Grid from rendered (day, session, label)
// rows by matching each label back against the subject catalog's
// rendered forms. Unknown labels are treated as Fallback rather than
// failing the whole reconstruction, since a hand-edited timetable may
// carry labels the validator has never seen.
func rowsToGrid(rows []dto.TimetableRow, subjects []engine.Subject) (*engine.Grid, error) {
	g := engine.NewGrid()
	for _, row := range rows {
		day, ok := engine.ParseDay(row.DayOfWeek)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", row.DayOfWeek)
		}
		if row.SessionNumber < 1 || row.SessionNumber > engine.SlotsPerDay {
			return nil, fmt.Errorf("session number %d out of range", row.SessionNumber)
		}
		g.Set(day, row.SessionNumber-1, labelToSlot(row.Label, subjects))
	}
	return g, nil
}

func labelToSlot(label string, subjects []engine.Subject) engine.Slot {
	switch label {
	case engine.FreePeriodLabel:
		return engine.Slot{Kind: engine.Free}
	case engine.ShortBreakLabel:
		return engine.Slot{Kind: engine.Break, BreakKind: engine.ShortBreak}
	case engine.LongBreakLabel:
		return engine.Slot{Kind: engine.Break, BreakKind: engine.LongBreak}
	case engine.UnallocatedLabel:
		return engine.Slot{Kind: engine.Unallocated}
	}

	for _, s := range subjects {
		if label == s.LabLabel() {
			return engine.Slot{Kind: engine.LabSlot, SubjectCode: s.Code}
		}
		if label == s.DisplayLabel() {
			return engine.Slot{Kind: engine.SubjectSlot, SubjectCode: s.Code}
		}
		if alt := s.AlternateLabel(); alt != "" && label == alt {
			return engine.Slot{Kind: engine.SubjectSlot, SubjectCode: s.Code, AltFaculty: s.AlternateFaculty}
		}
	}

	return engine.Slot{Kind: engine.Fallback}
}
