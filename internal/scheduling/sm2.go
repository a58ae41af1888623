// Package scheduling implements the review-scheduling core: recall scoring, the SM-2
// ease factor and interval update, spelling strength, and daily load balancing.
// Everything in this package is pure and safe for concurrent use.
package scheduling

import (
	"math"

	"github.com/at-ishikawa/vocabreview/internal/date"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0

	// LowEaseThreshold separates struggling items from established ones.
	LowEaseThreshold = 2.5

	DefaultMaxPrepDays = 45

	// barelyPassedGrowth damps interval growth after a score of exactly 3.
	barelyPassedGrowth = 0.3
	lowEaseShrink      = 0.5
	lowEaseBoost       = 1.3

	stopReviewEaseFactor = 3.0
	stopReviewRepetition = 6
)

var easeFactorDelta = map[int]float64{
	5: 0.15,
	4: 0.08,
	3: -0.02,
	2: -0.20,
	1: -0.40,
}

// ScoreThresholds bound the reaction times that map to the best and the weakest pass.
type ScoreThresholds struct {
	Fast float64
	Slow float64
}

// DefaultScoreThresholds are 2 and 5 seconds.
var DefaultScoreThresholds = ScoreThresholds{Fast: 2, Slow: 5}

// CalculateScore converts a recall outcome into a quality score from 1 to 5.
// Between the fast and slow thresholds the score falls logarithmically with the reaction
// time, following Weber-Fechner perception of duration.
func CalculateScore(remembered bool, elapsedSeconds float64, th ScoreThresholds) int {
	if !remembered {
		return 1
	}
	if th.Fast <= 0 || th.Slow <= th.Fast {
		th = DefaultScoreThresholds
	}
	if elapsedSeconds <= th.Fast {
		return 5
	}
	if elapsedSeconds >= th.Slow {
		return 3
	}

	ratio := (math.Log(th.Slow) - math.Log(elapsedSeconds)) / (math.Log(th.Slow) - math.Log(th.Fast))
	raw := 3 + 2*ratio
	return clampInt(int(math.Round(raw)), 1, 5)
}

// UpdateEaseFactor applies the fixed delta for the score. Struggling items that start
// succeeding recover faster.
func UpdateEaseFactor(ef float64, score int) float64 {
	if ef == 0 {
		ef = DefaultEaseFactor
	}
	delta := easeFactorDelta[score]
	if score >= 4 && ef < LowEaseThreshold {
		delta *= lowEaseBoost
	}
	return math.Max(MinEaseFactor, math.Min(ef+delta, MaxEaseFactor))
}

// SRSInput is the previous scheduling state of an item and the score just earned.
type SRSInput struct {
	Score      int
	Interval   int
	Repetition int
	EaseFactor float64
	Lapse      int
}

// SRSResult is the SM-2 outcome before any load balancing.
type SRSResult struct {
	Repetition     int
	Interval       int
	EaseFactor     float64
	LastRemembered date.Date
	LastForgot     date.Date
	RememberInc    int
	ForgetInc      int
	Lapse          int
}

// CalculateSRS runs the SM-2 step for one answer.
func CalculateSRS(in SRSInput, today date.Date) SRSResult {
	ef := in.EaseFactor
	if ef == 0 {
		ef = DefaultEaseFactor
	}
	newEF := UpdateEaseFactor(ef, in.Score)

	if in.Score < 3 {
		return SRSResult{
			Repetition: 0,
			Interval:   1,
			EaseFactor: newEF,
			LastForgot: today,
			ForgetInc:  1,
			Lapse:      1,
		}
	}

	growth := 1.0
	if in.Score == 3 {
		growth = barelyPassedGrowth
	}
	shrink := 1.0
	if ef <= LowEaseThreshold {
		shrink = lowEaseShrink
	}

	var interval int
	switch in.Repetition {
	case 0:
		interval = 1
	case 1:
		interval = 6
		if shrink != 1.0 {
			interval = 2
		}
	default:
		interval = max(1, int(math.Round(float64(in.Interval)*newEF*growth*shrink)))
	}

	return SRSResult{
		Repetition:     in.Repetition + 1,
		Interval:       interval,
		EaseFactor:     newEF,
		LastRemembered: today,
		RememberInc:    1,
		Lapse:          in.Lapse,
	}
}

// ShouldApplyLoadBalancing reports whether an item is still fragile enough to be pulled
// toward any free day, earlier ones included.
func ShouldApplyLoadBalancing(ef float64, repetition, score int) bool {
	return ef <= LowEaseThreshold || repetition < 3 || score <= 3
}

// ShouldStopReview reports whether an item is mastered and can leave the rotation.
func ShouldStopReview(ef float64, repetition int) bool {
	return ef >= stopReviewEaseFactor && repetition >= stopReviewRepetition
}

// ReviewLimits are the user settings that bound a review schedule.
type ReviewLimits struct {
	DailyLimit  int
	MaxPrepDays int
}

// ReviewSchedule is the SM-2 result together with the load-balanced day.
// Interval keeps the SM-2 value capped at the horizon; ScheduledDay is the day offset
// actually used for the next review.
type ReviewSchedule struct {
	SRSResult
	Score        int
	ScheduledDay int
	Phase        Phase
}

// ScheduleReview computes the SM-2 step, caps it at the preparation horizon and places it
// on a day of the load vector.
func ScheduleReview(in SRSInput, limits ReviewLimits, loads []int, today date.Date) ReviewSchedule {
	srs := CalculateSRS(in, today)

	maxPrep := limits.MaxPrepDays
	if maxPrep <= 0 {
		maxPrep = DefaultMaxPrepDays
	}
	srs.Interval = min(srs.Interval, maxPrep)

	params := BalanceParams{
		BaseInterval: srs.Interval,
		DailyLimit:   limits.DailyLimit,
		Loads:        loads,
	}
	var balanced BalanceResult
	if ShouldApplyLoadBalancing(srs.EaseFactor, srs.Repetition, in.Score) {
		balanced = FindOptimalDay(params)
	} else {
		balanced = FindOptimalDayForStrong(params)
	}

	return ReviewSchedule{
		SRSResult:    srs,
		Score:        in.Score,
		ScheduledDay: balanced.ChosenDay,
		Phase:        balanced.Phase,
	}
}

// AverageElapsed folds one more reaction time into a running average over reviews answers.
func AverageElapsed(prevAverage float64, reviews int, elapsed float64) float64 {
	if reviews <= 0 {
		return elapsed
	}
	return (prevAverage*float64(reviews) + elapsed) / float64(reviews+1)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
