package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdjustHorizonCommand() *cobra.Command {
	var (
		maxPrepDays int
		today       string
	)

	cmd := &cobra.Command{
		Use:   "adjust-horizon",
		Short: "Pull schedules beyond the preparation horizon back onto its last day",
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := newClock(today)
			if err != nil {
				return err
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if maxPrepDays <= 0 {
				maxPrepDays = cfg.Learning.MaxPrepDays
			}
			ctx := cmd.Context()
			session := newReviewSession(ctx, cfg, db, clock)
			adj, err := session.AdjustHorizon(ctx, maxPrepDays)
			if err != nil {
				return fmt.Errorf("adjust horizon: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Clamped to %d days after %s\n", maxPrepDays, clock.Today())
			return writeYAML(cmd.OutOrStdout(), adj)
		},
	}
	cmd.Flags().IntVar(&maxPrepDays, "max-prep-days", 0, "Horizon in days (defaults to learning.max_prep_days)")
	addTodayFlag(cmd.Flags(), &today)
	return cmd
}
