package main

import (
	"fmt"

	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/arnavshah/roster-optimizer/pkg/models"
	"github.com/spf13/cobra"
)

var (
	optimizeInput string
	applyInput    string
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Print the active caregivers and clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, svc, err := openService()
		if err != nil {
			return err
		}
		defer database.Close(db)

		roster, err := svc.Roster(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), roster)
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Propose assignments for a run request without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req models.RunRequest
		if err := readInput(optimizeInput, &req); err != nil {
			return err
		}

		db, svc, err := openService()
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := svc.Run(cmd.Context(), req)
		if err != nil {
			return err
		}
		logger.Info().
			Int("proposals", res.Summary.TotalProposals).
			Int("unscheduled", res.Summary.TotalUnscheduled).
			Msg("optimization complete")
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Persist accepted proposals as recurring schedule entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req models.ApplyRequest
		if err := readInput(applyInput, &req); err != nil {
			return err
		}
		if len(req.Proposals) == 0 {
			return fmt.Errorf("no proposals in %s", applyInput)
		}

		db, svc, err := openService()
		if err != nil {
			return err
		}
		defer database.Close(db)

		res := svc.Apply(cmd.Context(), req.Proposals)
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("%d of %d proposals failed", res.Errors, len(req.Proposals))
		}
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeInput, "input", "i", "-", "run request JSON file (- for stdin)")
	applyCmd.Flags().StringVarP(&applyInput, "input", "i", "-", "apply request JSON file (- for stdin)")
}
