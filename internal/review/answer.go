package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"github.com/at-ishikawa/vocabreview/internal/date"
	"github.com/at-ishikawa/vocabreview/internal/lapse"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/scheduling"
)

// Answer is the learner's response to the current item.
type Answer struct {
	ItemID     int64
	Remembered bool
	Elapsed    time.Duration
	// Spelling is only read in spelling mode.
	Spelling scheduling.SpellingSignal
}

// Feedback describes what an answer did. Exactly one of Review, Spelling and Lapse is set.
type Feedback struct {
	Item       learning.Item
	Mode       learning.Mode
	Score      int
	NextReview date.Date
	// Stopped is set when the item was mastered and left the review rotation.
	Stopped  bool
	Review   *scheduling.ReviewSchedule
	Spelling *scheduling.SpellSchedule
	Lapse    *lapse.Outcome
}

// Answer schedules the current item. The new schedule is written before the session moves
// on; if that write fails the error is returned and the item stays current.
func (s *Session) Answer(ctx context.Context, a Answer) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return Feedback{}, ErrNoSession
	}
	if s.lapse != nil {
		return s.answerLapseLocked(a)
	}

	item, ok, err := s.currentLocked(ctx)
	if err != nil {
		return Feedback{}, err
	}
	if !ok || item.ID != a.ItemID {
		return Feedback{}, fmt.Errorf("%w: %d", ErrNotCurrent, a.ItemID)
	}

	today := s.clock.Today()
	loads := s.loadsLocked(ctx, today)
	feedback := Feedback{
		Item:  item,
		Mode:  s.mode,
		Score: scheduling.CalculateScore(a.Remembered, a.Elapsed.Seconds(), s.settings.ScoreThresholds),
	}

	var day int
	switch s.mode {
	case learning.ModeReview:
		schedule := scheduling.ScheduleReview(scheduling.SRSInput{
			Score:      feedback.Score,
			Interval:   item.Interval,
			Repetition: item.Repetition,
			EaseFactor: item.EaseFactor,
			Lapse:      item.Lapse,
		}, s.settings.reviewLimits(), loads, today)
		update := newReviewUpdate(item, schedule, a.Elapsed, today)
		if err := s.writeItem(ctx, func(ctx context.Context) error {
			return s.items.UpdateReview(ctx, item.ID, update)
		}); err != nil {
			return Feedback{}, fmt.Errorf("items.UpdateReview(%d) > %w", item.ID, err)
		}
		day = schedule.ScheduledDay
		feedback.Review = &schedule
		feedback.NextReview = update.NextReview
		feedback.Stopped = update.StopReview

	case learning.ModeSpelling:
		schedule := scheduling.ScheduleSpelling(a.Spelling, a.Remembered, item.Word, item.Strength(), s.settings.spellingLimits(), loads)
		update := learning.SpellingUpdate{
			Strength:   schedule.Strength,
			NextReview: today.AddDays(schedule.ScheduledDay),
		}
		if err := s.writeItem(ctx, func(ctx context.Context) error {
			return s.items.UpdateSpelling(ctx, item.ID, update)
		}); err != nil {
			return Feedback{}, fmt.Errorf("items.UpdateSpelling(%d) > %w", item.ID, err)
		}
		day = schedule.ScheduledDay
		feedback.Spelling = &schedule
		feedback.NextReview = update.NextReview
	}

	if day >= 1 && day <= len(loads) {
		loads[day-1]++
	}
	s.recordLocked(item, a, feedback.Score)
	s.advanceLocked()
	return feedback, nil
}

func (s *Session) answerLapseLocked(a Answer) (Feedback, error) {
	item, _ := s.lapse.Head()
	outcome, err := s.lapse.Answer(a.ItemID, a.Remembered, a.Elapsed)
	if errors.Is(err, lapse.ErrNotHead) || errors.Is(err, lapse.ErrEmptyQueue) {
		return Feedback{}, fmt.Errorf("%w: %w", ErrNotCurrent, err)
	}
	if err != nil {
		return Feedback{}, err
	}

	score := scheduling.CalculateScore(a.Remembered, a.Elapsed.Seconds(), s.settings.ScoreThresholds)
	s.recordLocked(item, a, score)

	if outcome.Graduated {
		id := item.ID
		s.runner.Go("clear lapse", func(ctx context.Context) error {
			return s.items.ClearLapse(ctx, id)
		})
		if s.lapse.Done() {
			s.finishLocked()
		} else {
			s.persistSnapshotLocked()
		}
	}
	return Feedback{
		Item:  item,
		Mode:  learning.ModeLapse,
		Score: score,
		Lapse: &outcome,
	}, nil
}

func newReviewUpdate(item learning.Item, schedule scheduling.ReviewSchedule, elapsed time.Duration, today date.Date) learning.ReviewUpdate {
	update := learning.ReviewUpdate{
		Repetition:     schedule.Repetition,
		Interval:       schedule.Interval,
		EaseFactor:     schedule.EaseFactor,
		NextReview:     today.AddDays(schedule.ScheduledDay),
		LastRemembered: item.LastRemembered,
		LastForgot:     item.LastForgot,
		RememberCount:  item.RememberCount + schedule.RememberInc,
		ForgetCount:    item.ForgetCount + schedule.ForgetInc,
		LastScore:      schedule.Score,
		AvgElapsedTime: scheduling.AverageElapsed(item.AvgElapsedTime, item.Reviews(), elapsed.Seconds()),
		Lapse:          schedule.Lapse,
		StopReview:     scheduling.ShouldStopReview(schedule.EaseFactor, schedule.Repetition),
	}
	if !schedule.LastRemembered.IsZero() {
		update.LastRemembered = schedule.LastRemembered
	}
	if !schedule.LastForgot.IsZero() {
		update.LastForgot = schedule.LastForgot
	}
	return update
}

// loadsLocked returns the daily load vector of the active mode, reading it once per session.
// Without a vector the balancer keeps the base interval.
func (s *Session) loadsLocked(ctx context.Context, today date.Date) []int {
	if loads, ok := s.loads[s.mode]; ok {
		return loads
	}
	loads, err := s.items.DailyLoads(ctx, s.mode, s.source, today, s.settings.maxPrepDays())
	if err != nil {
		slog.Warn("failed to read daily loads", "mode", s.mode, "error", err)
		return nil
	}
	s.loads[s.mode] = loads
	return loads
}

func (s *Session) recordLocked(item learning.Item, a Answer, score int) {
	entry := learning.ReviewLog{
		ItemID:      item.ID,
		ReviewedAt:  time.Now().UTC(),
		Score:       score,
		Remembered:  a.Remembered,
		ElapsedTime: a.Elapsed.Seconds(),
		Mode:        s.mode,
		Source:      s.source,
	}
	s.runner.Go("record history", func(ctx context.Context) error {
		return s.history.Create(ctx, &entry)
	})
}

func (s *Session) writeItem(ctx context.Context, write func(ctx context.Context) error) error {
	return retry.Do(
		func() error {
			return write(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(s.opts.Retry.Attempts),
		retry.Delay(s.opts.Retry.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying item write", "attempt", n+1, "error", err)
		}),
	)
}
