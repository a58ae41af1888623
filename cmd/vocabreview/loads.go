package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/vocabreview/internal/date"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/scheduling"
)

type loadsReport struct {
	Today    date.Date `yaml:"today"`
	Source   string    `yaml:"source"`
	Review   []int     `yaml:"review"`
	Spelling []int     `yaml:"spelling"`
}

func newLoadsCommand() *cobra.Command {
	var (
		format string
		today  string
	)

	cmd := &cobra.Command{
		Use:   "loads",
		Short: "Show how many reviews are scheduled on each upcoming day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unsupported format %q", format)
			}
			clock, err := newClock(today)
			if err != nil {
				return err
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			repo := learning.NewDBItemRepository(db, cfg.UserID)
			days := cfg.Learning.MaxPrepDays
			if days <= 0 {
				days = scheduling.DefaultMaxPrepDays
			}
			report := loadsReport{Today: clock.Today(), Source: cfg.Source}
			if report.Review, err = repo.DailyLoads(ctx, learning.ModeReview, cfg.Source, report.Today, days); err != nil {
				return fmt.Errorf("read review loads: %w", err)
			}
			if report.Spelling, err = repo.DailyLoads(ctx, learning.ModeSpelling, cfg.Source, report.Today, days); err != nil {
				return fmt.Errorf("read spelling loads: %w", err)
			}

			if format == "yaml" {
				return writeYAML(cmd.OutOrStdout(), report)
			}
			return writeLoadsTable(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	addTodayFlag(cmd.Flags(), &today)
	return cmd
}

// writeLoadsTable prints one line per day that has anything scheduled.
func writeLoadsTable(w io.Writer, report loadsReport) error {
	if _, err := fmt.Fprintf(w, "%-10s  %6s  %8s\n", "day", "review", "spelling"); err != nil {
		return err
	}
	for i := range max(len(report.Review), len(report.Spelling)) {
		reviews, spellings := at(report.Review, i), at(report.Spelling, i)
		if reviews == 0 && spellings == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-10s  %6d  %8d\n", report.Today.AddDays(i+1), reviews, spellings); err != nil {
			return err
		}
	}
	return nil
}

func at(loads []int, i int) int {
	if i < len(loads) {
		return loads[i]
	}
	return 0
}

func writeYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("yaml.Encode() > %w", err)
	}
	return encoder.Close()
}
