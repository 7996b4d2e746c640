package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campusops/timetable-engine/internal/dto"
	"github.com/campusops/timetable-engine/pkg/config"
	"github.com/campusops/timetable-engine/pkg/database"
)

func newSaveCommand(cfg *config.Config) *cobra.Command {
	var (
		proposalID string
		publish    bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Persist a previously generated proposal to Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer db.Close()

			svc, err := newGeneratorService(cfg, db)
			if err != nil {
				return fmt.Errorf("build generator service: %w", err)
			}

			tt, err := svc.Save(context.Background(), dto.SaveTimetableRequest{
				ProposalID: proposalID,
				Publish:    publish,
			})
			if err != nil {
				return fmt.Errorf("save timetable: %w", err)
			}

			fmt.Fprintf(os.Stdout, "saved timetable %s (department=%s semester=%s version=%d status=%s)\n",
				tt.ID, tt.Department, tt.Semester, tt.Version, tt.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&proposalID, "proposal-id", "", "id of a previously generated proposal (see the generate subcommand's output)")
	cmd.Flags().BoolVar(&publish, "publish", false, "immediately publish the saved timetable")
	_ = cmd.MarkFlagRequired("proposal-id")
	return cmd
}
