package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/vocabreview/internal/learning"
)

// LearningStatistics holds statistics for a time period
type LearningStatistics struct {
	Period         string `yaml:"period"` // "2025-01"
	NewWordsCount  int    `yaml:"new_words_count"`
	NewWordsUnique int    `yaml:"new_words_unique"`
	RelearnsCount  int    `yaml:"relearns_count"`
	RelearnsUnique int    `yaml:"relearns_unique"`
	ForgottenCount int    `yaml:"forgotten_count"`
}

// AggregateStatistics holds totals across all periods with global unique counts
type AggregateStatistics struct {
	NewWordsCount  int `yaml:"new_words_count"`
	NewWordsUnique int `yaml:"new_words_unique"`
	RelearnsCount  int `yaml:"relearns_count"`
	RelearnsUnique int `yaml:"relearns_unique"`
	ForgottenCount int `yaml:"forgotten_count"`
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []LearningStatistics `yaml:"periods"`
	Aggregate AggregateStatistics  `yaml:"aggregate"`
}

type periodData struct {
	newWordsTotal  int
	newWordsUnique map[string]struct{}
	relearnsTotal  int
	relearnsUnique map[string]struct{}
	forgottenTotal int
}

// CalculateStatistics aggregates an answer log per month. year and month filter the periods,
// 0 means no filter.
// A "new word" is the first remembered answer of an item in a mode; every later remembered
// answer is a "relearn". Forgotten answers only count as forgotten.
func CalculateStatistics(logs []learning.ReviewLog, year, month int) StatisticsResult {
	sorted := make([]learning.ReviewLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReviewedAt.Before(sorted[j].ReviewedAt)
	})

	stats := make(map[string]*periodData)
	learned := make(map[string]struct{})
	globalNewWordsUnique := make(map[string]struct{})
	globalRelearnsUnique := make(map[string]struct{})

	for _, log := range sorted {
		if log.ReviewedAt.IsZero() {
			continue
		}
		key := fmt.Sprintf("%d|%s", log.ItemID, log.Mode)
		_, seen := learned[key]
		if log.Remembered {
			learned[key] = struct{}{}
		}

		logYear, logMonth := log.ReviewedAt.Year(), int(log.ReviewedAt.Month())
		if !matchesFilter(logYear, logMonth, year, month) {
			continue
		}
		period := fmt.Sprintf("%d-%02d", logYear, logMonth)
		ensurePeriodExists(stats, period)

		switch {
		case !log.Remembered:
			stats[period].forgottenTotal++
		case !seen:
			stats[period].newWordsTotal++
			stats[period].newWordsUnique[key] = struct{}{}
			globalNewWordsUnique[key] = struct{}{}
		default:
			stats[period].relearnsTotal++
			stats[period].relearnsUnique[key] = struct{}{}
			globalRelearnsUnique[key] = struct{}{}
		}
	}

	return buildResult(stats, globalNewWordsUnique, globalRelearnsUnique)
}

func ensurePeriodExists(stats map[string]*periodData, period string) {
	if stats[period] == nil {
		stats[period] = &periodData{
			newWordsUnique: make(map[string]struct{}),
			relearnsUnique: make(map[string]struct{}),
		}
	}
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, globalNewWordsUnique, globalRelearnsUnique map[string]struct{}) StatisticsResult {
	periods := make([]LearningStatistics, 0, len(stats))

	var aggregate AggregateStatistics
	for period, data := range stats {
		periods = append(periods, LearningStatistics{
			Period:         period,
			NewWordsCount:  data.newWordsTotal,
			NewWordsUnique: len(data.newWordsUnique),
			RelearnsCount:  data.relearnsTotal,
			RelearnsUnique: len(data.relearnsUnique),
			ForgottenCount: data.forgottenTotal,
		})
		aggregate.NewWordsCount += data.newWordsTotal
		aggregate.RelearnsCount += data.relearnsTotal
		aggregate.ForgottenCount += data.forgottenTotal
	}
	aggregate.NewWordsUnique = len(globalNewWordsUnique)
	aggregate.RelearnsUnique = len(globalRelearnsUnique)

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
