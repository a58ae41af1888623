package scheduling

import (
	"math"
	"time"
	"unicode/utf8"
)

const (
	MaxSpellStrength = 5.0

	accuracyWeight     = 0.6
	fluencyWeight      = 0.2
	independenceWeight = 0.2

	passScore       = 0.55
	maxStrengthGain = 1.0
	maxStrengthLoss = 0.7
	forgottenDecay  = 0.3

	baseTypingTime    = 500 * time.Millisecond
	typingTimePerChar = 180 * time.Millisecond
	rhythmTarget      = 200 * time.Millisecond
	rhythmSpan        = 600 * time.Millisecond
	pauseTolerance    = 800 * time.Millisecond
	pauseSpan         = 2200 * time.Millisecond
	maxPausePenalty   = 0.3

	audioReplayPenalty = 0.2

	// Below weakSpellStrength an item only gets the hard daily cap, not spreading.
	weakSpellStrength   = 0.8
	strongSpellStrength = 2.5
)

// KeyEvent is one key press captured while the learner typed the word.
type KeyEvent struct {
	Key  string
	Meta bool
	Ctrl bool
}

// SpellingSignal is the keystroke-dynamics summary of one spelling attempt.
type SpellingSignal struct {
	KeyEvents          []KeyEvent
	AudioRequestCount  int
	TotalTypingTime    time.Duration
	LongestPause       time.Duration
	AverageKeyInterval time.Duration
}

// HasTiming reports whether timing data was captured.
func (s SpellingSignal) HasTiming() bool {
	return s.TotalTypingTime > 0 || s.LongestPause > 0 || s.AverageKeyInterval > 0
}

var nonTypingKeys = map[string]bool{
	"ArrowLeft":  true,
	"ArrowRight": true,
	"Tab":        true,
	"Shift":      true,
	"Control":    true,
	"Alt":        true,
	"Meta":       true,
	"Escape":     true,
	"Backspace":  true,
}

// SpellBreakdown explains how a spelling attempt was graded.
type SpellBreakdown struct {
	Remembered           bool    `yaml:"remembered"`
	StrengthGain         float64 `yaml:"strength_gain"`
	TypedCount           int     `yaml:"typed_count,omitempty"`
	BackspaceCount       int     `yaml:"backspace_count,omitempty"`
	WordLength           int     `yaml:"word_length,omitempty"`
	AccuracyScore        float64 `yaml:"accuracy_score,omitempty"`
	FluencyScore         float64 `yaml:"fluency_score,omitempty"`
	IndependenceScore    float64 `yaml:"independence_score,omitempty"`
	WeightedAccuracy     float64 `yaml:"weighted_accuracy,omitempty"`
	WeightedFluency      float64 `yaml:"weighted_fluency,omitempty"`
	WeightedIndependence float64 `yaml:"weighted_independence,omitempty"`
	TotalScore           float64 `yaml:"total_score,omitempty"`
}

// CalculateSpellStrength grades a spelling attempt and returns the new strength in [0, 5].
func CalculateSpellStrength(signal SpellingSignal, remembered bool, word string, current float64) (float64, SpellBreakdown) {
	if !remembered {
		newStrength := current * forgottenDecay
		return newStrength, SpellBreakdown{
			Remembered:   false,
			StrengthGain: round2(newStrength - current),
		}
	}

	wordLength := utf8.RuneCountInString(word)
	typed, backspaces := 0, 0
	for _, e := range signal.KeyEvents {
		if e.Key == "Backspace" {
			backspaces++
		}
		if !nonTypingKeys[e.Key] {
			typed++
		}
	}

	accuracy := inputAccuracy(typed, backspaces, wordLength, signal.KeyEvents)
	fluency := inputFluency(signal, wordLength)
	independence := math.Max(0, 1-float64(signal.AudioRequestCount)*audioReplayPenalty)

	total := accuracy*accuracyWeight + fluency*fluencyWeight + independence*independenceWeight
	gain := StrengthGain(total)
	newStrength := round2(math.Max(0, math.Min(MaxSpellStrength, current+gain)))

	return newStrength, SpellBreakdown{
		Remembered:           true,
		StrengthGain:         round2(gain),
		TypedCount:           typed,
		BackspaceCount:       backspaces,
		WordLength:           wordLength,
		AccuracyScore:        round3(accuracy),
		FluencyScore:         round3(fluency),
		IndependenceScore:    round3(independence),
		WeightedAccuracy:     round3(accuracy * accuracyWeight),
		WeightedFluency:      round3(fluency * fluencyWeight),
		WeightedIndependence: round3(independence * independenceWeight),
		TotalScore:           round3(total),
	}
}

// StrengthGain maps a weighted attempt score in [0, 1] onto a strength change:
// +1.0 at a perfect attempt, 0 at the pass mark, -0.7 at a zero score.
func StrengthGain(total float64) float64 {
	if total >= passScore {
		return (total - passScore) / (1 - passScore) * maxStrengthGain
	}
	return (total/passScore)*maxStrengthLoss - maxStrengthLoss
}

func inputAccuracy(typed, backspaces, wordLength int, events []KeyEvent) float64 {
	base := math.Min(1, float64(wordLength)/float64(max(1, typed)))

	wordDelete := false
	for _, e := range events {
		if e.Key == "Backspace" && (e.Meta || e.Ctrl) {
			wordDelete = true
			break
		}
	}

	var penalty float64
	switch {
	case wordDelete:
		penalty = 0.50
	case backspaces >= 10:
		penalty = 0.45
	case backspaces >= 6:
		penalty = 0.35
	case backspaces >= 3:
		penalty = 0.25
	case backspaces >= 1:
		penalty = 0.15
	}
	return math.Max(0, math.Min(1, base-penalty))
}

func inputFluency(signal SpellingSignal, wordLength int) float64 {
	if !signal.HasTiming() {
		return 0.5
	}
	total := signal.TotalTypingTime
	if total <= 0 {
		total = time.Second
	}
	expected := baseTypingTime + time.Duration(wordLength)*typingTimePerChar
	efficiency := math.Min(1, float64(expected)/float64(max(time.Millisecond, total)))

	rhythm := 1.0
	if signal.AverageKeyInterval > rhythmTarget {
		rhythm = math.Max(0, 1-float64(signal.AverageKeyInterval-rhythmTarget)/float64(rhythmSpan))
	}

	pause := 0.0
	if signal.LongestPause > pauseTolerance {
		pause = math.Min(maxPausePenalty, maxPausePenalty*float64(signal.LongestPause-pauseTolerance)/float64(pauseSpan))
	}

	fluency := efficiency*0.45 + rhythm*0.45 + (1-pause)*0.10
	return math.Max(0, math.Min(1, fluency))
}

// SpellGrowthFactor is chosen so that full strength lands on half the horizon, which keeps
// at least two spelling reviews inside it.
func SpellGrowthFactor(maxPrepDays int) float64 {
	return math.Pow(float64(maxPrepDays)/2, 1.0/MaxSpellStrength)
}

// NextSpellInterval returns the unbalanced spelling interval for the new strength.
func NextSpellInterval(newStrength float64, remembered bool, baseInterval, maxPrepDays int) int {
	if !remembered {
		return 1
	}
	if baseInterval < 1 {
		baseInterval = 1
	}
	if maxPrepDays <= 0 {
		maxPrepDays = DefaultMaxPrepDays
	}
	if newStrength <= 0 {
		return baseInterval
	}
	interval := float64(baseInterval) * math.Pow(SpellGrowthFactor(maxPrepDays), newStrength)
	return clampInt(int(math.Round(interval)), 1, maxPrepDays)
}

// SpellingLimits are the user settings that bound a spelling schedule.
type SpellingLimits struct {
	DailyLimit  int
	MaxPrepDays int
}

// SpellSchedule is the outcome of one spelling attempt.
type SpellSchedule struct {
	Strength     float64
	Change       float64
	Interval     int
	ScheduledDay int
	Phase        Phase
	Breakdown    SpellBreakdown
}

// ScheduleSpelling grades the attempt and places the next spelling review on the load
// vector. Weak or forgotten items are only held to the daily cap; middling items are
// spread within a window that widens with strength; strong items are only pushed later.
func ScheduleSpelling(signal SpellingSignal, remembered bool, word string, current float64, limits SpellingLimits, loads []int) SpellSchedule {
	maxPrep := limits.MaxPrepDays
	if maxPrep <= 0 {
		maxPrep = DefaultMaxPrepDays
	}

	strength, breakdown := CalculateSpellStrength(signal, remembered, word, current)
	interval := NextSpellInterval(strength, remembered, 1, maxPrep)

	schedule := SpellSchedule{
		Strength:  strength,
		Change:    round2(strength - current),
		Interval:  interval,
		Breakdown: breakdown,
	}

	if !remembered || strength < weakSpellStrength {
		schedule.ScheduledDay = EnforceDailyLimit(interval, loads, limits.DailyLimit)
		schedule.Phase = PhaseBase
		return schedule
	}

	params := BalanceParams{
		BaseInterval: interval,
		DailyLimit:   limits.DailyLimit,
		Loads:        loads,
	}
	var balanced BalanceResult
	if strength <= strongSpellStrength {
		switch {
		case strength < 1.5:
			params.MaxDeviationDays = 3
		case strength < 2.0:
			params.MaxDeviationDays = 5
		default:
			params.MaxDeviationDays = 7
		}
		balanced = FindOptimalDay(params)
	} else {
		balanced = FindOptimalDayForStrong(params)
	}
	schedule.ScheduledDay = balanced.ChosenDay
	schedule.Phase = balanced.Phase
	return schedule
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
