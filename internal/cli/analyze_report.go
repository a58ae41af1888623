package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/at-ishikawa/vocabreview/internal/statistics"
)

// WriteAnalyzeReport prints the per-month statistics, newest first, followed by the totals.
func WriteAnalyzeReport(w io.Writer, result statistics.StatisticsResult) error {
	if len(result.Periods) == 0 {
		_, err := fmt.Fprintln(w, "No answers recorded for the period")
		return err
	}

	bold := color.New(color.Bold)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = bold.Fprintln(tw, "Period\tNew words\tUnique\tRelearns\tUnique\tForgotten\t")
	for _, p := range result.Periods {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t\n",
			p.Period, p.NewWordsCount, p.NewWordsUnique, p.RelearnsCount, p.RelearnsUnique, p.ForgottenCount)
	}
	a := result.Aggregate
	_, _ = fmt.Fprintf(tw, "Total\t%d\t%d\t%d\t%d\t%d\t\n",
		a.NewWordsCount, a.NewWordsUnique, a.RelearnsCount, a.RelearnsUnique, a.ForgottenCount)
	return tw.Flush()
}
