package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/pkg/config"
)

func newGenerateCommand(cfg *config.Config) *cobra.Command {
	var (
		inputPath    string
		backtracking bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the C1-C6 pipeline over a JSON request and print the resulting grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(inputPath)
			if err != nil {
				return err
			}

			var req dto.GenerateTimetableRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("parse generation request: %w", err)
			}
			if backtracking {
				req.Strategy = "backtracking"
			}

			svc, err := newGeneratorService(cfg, nil)
			if err != nil {
				return fmt.Errorf("build generator service: %w", err)
			}
			resp, err := svc.Generate(context.Background(), req)
			if err != nil {
				return fmt.Errorf("generate timetable: %w", err)
			}

			printTimetable(os.Stdout, resp.Rows)

			fmt.Fprintf(os.Stdout, "\nproposal: %s\n", resp.ProposalID)
			for _, w := range resp.Warnings {
				fmt.Fprintf(os.Stdout, "warning: %s\n", w)
			}
			for _, v := range resp.Violations {
				fmt.Fprintf(os.Stdout, "violation: %s\n", v)
			}
			if len(resp.Violations) > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "path to a JSON GenerateTimetableRequest, or - for stdin")
	cmd.Flags().BoolVar(&backtracking, "backtracking", false, "use the backtracking placer instead of the default weighted placer")
	return cmd
}

func printTimetable(w *os.File, rows []dto.TimetableRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tSESSION\tLABEL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.DayOfWeek, r.SessionNumber, r.Label)
	}
	tw.Flush()
}
