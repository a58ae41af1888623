package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/vocabreview/internal/learning"
)

func answer(itemID int64, mode learning.Mode, remembered bool, year int, month time.Month, day int) learning.ReviewLog {
	return learning.ReviewLog{
		ItemID:     itemID,
		Mode:       mode,
		Remembered: remembered,
		ReviewedAt: time.Date(year, month, day, 9, 0, 0, 0, time.UTC),
	}
}

func TestCalculateStatistics(t *testing.T) {
	logs := []learning.ReviewLog{
		// out of order on purpose
		answer(1, learning.ModeReview, true, 2025, time.February, 3),
		answer(1, learning.ModeReview, false, 2025, time.January, 10),
		answer(1, learning.ModeReview, true, 2025, time.January, 11),
		answer(1, learning.ModeSpelling, true, 2025, time.February, 4),
		answer(2, learning.ModeReview, true, 2025, time.January, 20),
		answer(2, learning.ModeReview, true, 2025, time.January, 21),
		answer(2, learning.ModeReview, true, 2025, time.February, 1),
		answer(3, learning.ModeReview, true, 2024, time.December, 31),
		{ItemID: 4, Mode: learning.ModeReview, Remembered: true},
	}

	tests := []struct {
		name  string
		year  int
		month int
		want  StatisticsResult
	}{
		{
			name: "all periods",
			want: StatisticsResult{
				Periods: []LearningStatistics{
					{Period: "2025-02", NewWordsCount: 1, NewWordsUnique: 1, RelearnsCount: 2, RelearnsUnique: 2},
					{Period: "2025-01", NewWordsCount: 2, NewWordsUnique: 2, RelearnsCount: 1, RelearnsUnique: 1, ForgottenCount: 1},
					{Period: "2024-12", NewWordsCount: 1, NewWordsUnique: 1},
				},
				Aggregate: AggregateStatistics{NewWordsCount: 4, NewWordsUnique: 4, RelearnsCount: 3, RelearnsUnique: 2, ForgottenCount: 1},
			},
		},
		{
			name: "year filter",
			year: 2024,
			want: StatisticsResult{
				Periods:   []LearningStatistics{{Period: "2024-12", NewWordsCount: 1, NewWordsUnique: 1}},
				Aggregate: AggregateStatistics{NewWordsCount: 1, NewWordsUnique: 1},
			},
		},
		{
			name:  "month filter keeps earlier answers as history",
			year:  2025,
			month: 2,
			want: StatisticsResult{
				Periods: []LearningStatistics{
					{Period: "2025-02", NewWordsCount: 1, NewWordsUnique: 1, RelearnsCount: 2, RelearnsUnique: 2},
				},
				Aggregate: AggregateStatistics{NewWordsCount: 1, NewWordsUnique: 1, RelearnsCount: 2, RelearnsUnique: 2},
			},
		},
		{
			name:  "no answers in the period",
			year:  2023,
			month: 5,
			want:  StatisticsResult{Periods: []LearningStatistics{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStatistics(logs, tt.year, tt.month)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesFilter(t *testing.T) {
	assert.True(t, matchesFilter(2025, 1, 0, 0))
	assert.True(t, matchesFilter(2025, 1, 2025, 0))
	assert.True(t, matchesFilter(2025, 1, 2025, 1))
	assert.False(t, matchesFilter(2025, 1, 2025, 2))
	assert.False(t, matchesFilter(2025, 1, 2024, 0))
}
