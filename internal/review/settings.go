package review

import (
	"context"

	"github.com/at-ishikawa/vocabreview/internal/scheduling"
)

// Settings are the per-user limits a session schedules against.
type Settings struct {
	DailyReviewLimit int
	DailySpellLimit  int
	MaxPrepDays      int
	// LowEFExtraCount is how many low ease items are appended to the due review items.
	LowEFExtraCount int
	LapseGaps       []int
	ScoreThresholds scheduling.ScoreThresholds
}

// SettingsProvider supplies the settings when a session starts.
type SettingsProvider interface {
	Settings(ctx context.Context) (Settings, error)
}

// StaticSettings is a SettingsProvider that always returns the same settings.
type StaticSettings Settings

func (s StaticSettings) Settings(context.Context) (Settings, error) {
	return Settings(s), nil
}

func (s Settings) maxPrepDays() int {
	if s.MaxPrepDays <= 0 {
		return scheduling.DefaultMaxPrepDays
	}
	return s.MaxPrepDays
}

func (s Settings) reviewLimits() scheduling.ReviewLimits {
	return scheduling.ReviewLimits{DailyLimit: s.DailyReviewLimit, MaxPrepDays: s.maxPrepDays()}
}

func (s Settings) spellingLimits() scheduling.SpellingLimits {
	return scheduling.SpellingLimits{DailyLimit: s.DailySpellLimit, MaxPrepDays: s.maxPrepDays()}
}
