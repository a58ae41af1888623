package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/review"
	"github.com/at-ishikawa/vocabreview/internal/scheduling"
)

//go:generate mockgen -source=review_cli.go -destination=../mocks/cli/mock_reviewer.go -package=mock_cli Reviewer

// Reviewer is the part of review.Session the CLI drives.
type Reviewer interface {
	Current(ctx context.Context) (learning.Item, bool, error)
	Answer(ctx context.Context, a review.Answer) (review.Feedback, error)
	StopItem(ctx context.Context, id int64) error
	Mode() learning.Mode
	GlobalIndex() int
	Total() int
}

// ReviewCLI manages the interactive CLI session for a started review.Session
type ReviewCLI struct {
	*InteractiveQuizCLI
	reviewer Reviewer
	now      func() time.Time
}

// NewReviewCLI creates a CLI reading answers from stdin and printing to stdout
func NewReviewCLI(reviewer Reviewer, stdin io.Reader, stdout io.Writer) *ReviewCLI {
	return &ReviewCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(stdin, stdout),
		reviewer:           reviewer,
		now:                time.Now,
	}
}

func (r *ReviewCLI) Session(ctx context.Context) error {
	item, ok, err := r.reviewer.Current(ctx)
	if err != nil {
		return fmt.Errorf("reviewer.Current() > %w", err)
	}
	if !ok {
		_, _ = fmt.Fprintln(r.stdoutWriter, "No more words to review!")
		return errEnd
	}

	_, _ = fmt.Fprintf(r.stdoutWriter, "[%d/%d] ", r.reviewer.GlobalIndex()+1, r.reviewer.Total())
	if r.reviewer.Mode() == learning.ModeSpelling {
		return r.spell(ctx, item)
	}
	return r.recall(ctx, item)
}

func (r *ReviewCLI) recall(ctx context.Context, item learning.Item) error {
	_, _ = r.bold.Fprintln(r.stdoutWriter, item.Word)
	_, _ = fmt.Fprint(r.stdoutWriter, "Do you remember it? [y]es/[n]o/[s]top reviewing/[q]uit: ")

	started := r.now()
	input, err := r.readLine()
	if err != nil {
		return err
	}
	elapsed := r.now().Sub(started)

	var remembered bool
	switch strings.ToLower(input) {
	case "y", "yes":
		remembered = true
	case "n", "no":
	case "s", "stop":
		if err := r.reviewer.StopItem(ctx, item.ID); err != nil {
			return fmt.Errorf("reviewer.StopItem(%d) > %w", item.ID, err)
		}
		_, _ = fmt.Fprintf(r.stdoutWriter, "%s will not be reviewed anymore\n\n", item.Word)
		return nil
	case "q", "quit":
		return errEnd
	default:
		_, _ = fmt.Fprintln(r.stdoutWriter, "Please answer y, n, s or q")
		return nil
	}

	feedback, err := r.reviewer.Answer(ctx, review.Answer{
		ItemID:     item.ID,
		Remembered: remembered,
		Elapsed:    elapsed,
	})
	if err != nil {
		return fmt.Errorf("reviewer.Answer(%d) > %w", item.ID, err)
	}
	if item.Definition != "" {
		_, _ = r.italic.Fprintf(r.stdoutWriter, "  %s\n", item.Definition)
	}
	r.printFeedback(feedback)
	return nil
}

// spell asks for the word from its definition. A line input carries no key timings, so
// every typed character counts as one key press over the whole answer time.
func (r *ReviewCLI) spell(ctx context.Context, item learning.Item) error {
	definition := item.Definition
	if definition == "" {
		definition = "(no definition)"
	}
	_, _ = r.italic.Fprintln(r.stdoutWriter, definition)
	_, _ = fmt.Fprint(r.stdoutWriter, "Spell the word (:q to quit): ")

	started := r.now()
	input, err := r.readLine()
	if err != nil {
		return err
	}
	elapsed := r.now().Sub(started)
	if input == ":q" {
		return errEnd
	}

	feedback, err := r.reviewer.Answer(ctx, review.Answer{
		ItemID:     item.ID,
		Remembered: strings.EqualFold(input, item.Word),
		Elapsed:    elapsed,
		Spelling: scheduling.SpellingSignal{
			KeyEvents: lo.Map([]rune(input), func(c rune, _ int) scheduling.KeyEvent {
				return scheduling.KeyEvent{Key: string(c)}
			}),
			TotalTypingTime: elapsed,
		},
	})
	if err != nil {
		return fmt.Errorf("reviewer.Answer(%d) > %w", item.ID, err)
	}
	r.printFeedback(feedback)
	return nil
}

func (r *ReviewCLI) printFeedback(f review.Feedback) {
	w := r.stdoutWriter
	remembered := f.Score >= 3
	if f.Lapse != nil {
		remembered = f.Lapse.Remembered
	}
	if remembered {
		_, _ = r.green.Fprintf(w, "✅ %s", f.Item.Word)
	} else {
		_, _ = r.red.Fprintf(w, "❌ %s", f.Item.Word)
	}
	_, _ = fmt.Fprintf(w, " (score %d)\n", f.Score)

	switch {
	case f.Review != nil:
		_, _ = fmt.Fprintf(w, "next review: %s (interval %d days, ease %.2f, %s)\n",
			f.NextReview, f.Review.Interval, f.Review.EaseFactor, f.Review.Phase)
		if f.Stopped {
			_, _ = r.bold.Fprintln(w, "mastered, it will not be reviewed anymore")
		}
	case f.Spelling != nil:
		_, _ = fmt.Fprintf(w, "spelling strength: %.2f (%+.2f), next spelling: %s\n",
			f.Spelling.Strength, f.Spelling.Change, f.NextReview)
	case f.Lapse != nil:
		if f.Lapse.Graduated {
			_, _ = r.bold.Fprintln(w, "graduated from the lapse queue")
		} else {
			_, _ = fmt.Fprintf(w, "level %d -> %d\n", f.Lapse.PreviousLevel, f.Lapse.NewLevel)
		}
	}
	_, _ = fmt.Fprintln(w)
}
