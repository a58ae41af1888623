package learning

import (
	"time"

	"github.com/samber/lo"

	"github.com/at-ishikawa/vocabreview/internal/date"
)

// Mode is a practice mode. Each mode has its own queue and its own load vector.
type Mode string

const (
	ModeReview   Mode = "review"
	ModeSpelling Mode = "spelling"
	ModeLapse    Mode = "lapse"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeReview || m == ModeSpelling || m == ModeLapse
}

// Item is a word together with its scheduling state.
type Item struct {
	ID              int64     `db:"id" yaml:"id"`
	UserID          string    `db:"user_id" yaml:"-"`
	Source          string    `db:"source" yaml:"source"`
	Word            string    `db:"word" yaml:"word"`
	Definition      string    `db:"definition" yaml:"definition,omitempty"`
	EaseFactor      float64   `db:"ease_factor" yaml:"ease_factor"`
	Repetition      int       `db:"repetition" yaml:"repetition"`
	Interval        int       `db:"interval_days" yaml:"interval"`
	NextReview      date.Date `db:"next_review" yaml:"next_review,omitempty"`
	LastRemembered  date.Date `db:"last_remembered" yaml:"last_remembered,omitempty"`
	LastForgot      date.Date `db:"last_forgot" yaml:"last_forgot,omitempty"`
	RememberCount   int       `db:"remember_count" yaml:"remember_count"`
	ForgetCount     int       `db:"forget_count" yaml:"forget_count"`
	LastScore       int       `db:"last_score" yaml:"last_score"`
	AvgElapsedTime  float64   `db:"avg_elapsed_time" yaml:"avg_elapsed_time"`
	Lapse           int       `db:"lapse" yaml:"lapse"`
	SpellStrength   *float64  `db:"spell_strength" yaml:"spell_strength,omitempty"`
	SpellNextReview date.Date `db:"spell_next_review" yaml:"spell_next_review,omitempty"`
	StopReview      bool      `db:"stop_review" yaml:"stop_review"`
}

// Reviews is the number of recorded review answers.
func (i Item) Reviews() int {
	return i.RememberCount + i.ForgetCount
}

// Strength returns the spelling strength, 0 when the item was never spelled.
func (i Item) Strength() float64 {
	if i.SpellStrength == nil {
		return 0
	}
	return *i.SpellStrength
}

// IDs returns the ids of items in order.
func IDs(items []Item) []int64 {
	return lo.Map(items, func(it Item, _ int) int64 { return it.ID })
}

// ReviewUpdate is the new review state written back after an answer.
type ReviewUpdate struct {
	Repetition     int
	Interval       int
	EaseFactor     float64
	NextReview     date.Date
	LastRemembered date.Date
	LastForgot     date.Date
	RememberCount  int
	ForgetCount    int
	LastScore      int
	AvgElapsedTime float64
	Lapse          int
	StopReview     bool
}

// SpellingUpdate is the new spelling state written back after an attempt.
type SpellingUpdate struct {
	Strength   float64
	NextReview date.Date
}

// ReviewLog is one answer kept for trend statistics.
type ReviewLog struct {
	ID          int64     `db:"id" yaml:"id"`
	UserID      string    `db:"user_id" yaml:"-"`
	ItemID      int64     `db:"item_id" yaml:"item_id"`
	ReviewedAt  time.Time `db:"reviewed_at" yaml:"reviewed_at"`
	Score       int       `db:"score" yaml:"score"`
	Remembered  bool      `db:"remembered" yaml:"remembered"`
	ElapsedTime float64   `db:"elapsed_time" yaml:"elapsed_time"`
	Mode        Mode      `db:"mode" yaml:"mode"`
	Source      string    `db:"source" yaml:"source"`
}
