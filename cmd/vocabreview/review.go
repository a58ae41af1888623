package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/vocabreview/internal/cli"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/review"
)

func newReviewCommand() *cobra.Command {
	var (
		mode    string
		shuffle bool
		resume  bool
		today   string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Start an interactive review session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			clock, err := newClock(today)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("shuffle") {
				shuffle = cfg.Learning.DefaultShuffle
			}

			session := newReviewSession(ctx, cfg, db, clock)
			resumed := false
			if resume {
				if resumed, err = session.Restore(ctx); err != nil {
					return fmt.Errorf("restore session: %w", err)
				}
			}
			if !resumed {
				if err := session.Start(ctx, review.StartOptions{
					Mode:    learning.Mode(mode),
					Source:  cfg.Source,
					Shuffle: shuffle,
				}); err != nil {
					return fmt.Errorf("start session: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if session.Done() {
				_, _ = fmt.Fprintf(out, "Nothing to review in %s mode\n", session.Mode())
				return session.Close(ctx)
			}
			if resumed {
				_, _ = fmt.Fprintf(out, "Resuming %s session at %d/%d\n\n", session.Mode(), session.GlobalIndex()+1, session.Total())
			} else {
				_, _ = fmt.Fprintf(out, "Starting %s session with %d words\n\n", session.Mode(), session.Total())
			}

			reviewCLI := cli.NewReviewCLI(session, cmd.InOrStdin(), out)
			runErr := reviewCLI.Run(ctx, reviewCLI)
			_, _ = fmt.Fprintf(out, "Progress: %d%%\n", session.Progress())
			return errors.Join(runErr, session.Close(ctx))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(learning.ModeReview), "Review mode: review, spelling or lapse")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the words (defaults to learning.default_shuffle)")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume the saved session if there is one")
	addTodayFlag(cmd.Flags(), &today)
	return cmd
}
