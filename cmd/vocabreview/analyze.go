package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/vocabreview/internal/cli"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/statistics"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze learning progress and statistics",
	}
	cmd.AddCommand(newAnalyzeReportCommand())
	return cmd
}

func newAnalyzeReportCommand() *cobra.Command {
	var (
		year, month int
		format      string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show monthly/yearly report of learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unsupported format %q", format)
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			logs, err := learning.NewDBHistoryRepository(db, cfg.UserID).FindBySource(cmd.Context(), cfg.Source)
			if err != nil {
				return fmt.Errorf("read review history: %w", err)
			}
			result := statistics.CalculateStatistics(logs, year, month)
			if format == "yaml" {
				return writeYAML(cmd.OutOrStdout(), result)
			}
			return cli.WriteAnalyzeReport(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")

	return cmd
}
