package scheduling

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filledLoads(n, value int) []int {
	loads := make([]int, n)
	for i := range loads {
		loads[i] = value
	}
	return loads
}

func TestSearchWindow(t *testing.T) {
	tests := []struct {
		name          string
		base          int
		days          int
		expectedStart int
		expectedEnd   int
	}{
		{name: "short interval gets the minimum offset", base: 1, days: 45, expectedStart: 1, expectedEnd: 2},
		{name: "half the interval", base: 10, days: 45, expectedStart: 10, expectedEnd: 15},
		{name: "capped at seven days", base: 20, days: 45, expectedStart: 20, expectedEnd: 27},
		{name: "clipped to the vector", base: 44, days: 45, expectedStart: 44, expectedEnd: 45},
		{name: "base beyond the vector", base: 60, days: 45, expectedStart: 45, expectedEnd: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := SearchWindow(BalanceParams{
				BaseInterval: tt.base,
				DailyLimit:   10,
				Loads:        make([]int, tt.days),
			})
			assert.Equal(t, tt.expectedStart, start)
			assert.Equal(t, tt.expectedEnd, end)
		})
	}
}

func TestFindOptimalDay(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		limit    int
		loads    func() []int
		expected BalanceResult
	}{
		{
			name:  "empty calendar keeps the base day",
			base:  10,
			limit: 5,
			loads: func() []int { return make([]int, 45) },
			expected: BalanceResult{ChosenDay: 10, BaseInterval: 10, Phase: PhaseFirstFit},
		},
		{
			name:  "first free day of the window",
			base:  10,
			limit: 5,
			loads: func() []int {
				loads := make([]int, 45)
				loads[9], loads[10] = 5, 7
				return loads
			},
			expected: BalanceResult{ChosenDay: 12, BaseInterval: 10, Phase: PhaseFirstFit},
		},
		{
			name:  "forward past a full window",
			base:  10,
			limit: 5,
			loads: func() []int {
				loads := filledLoads(45, 5)
				loads[15] = 0
				loads[30] = 0
				return loads
			},
			expected: BalanceResult{ChosenDay: 16, BaseInterval: 10, Phase: PhaseForward},
		},
		{
			name:  "backward to the nearest earlier day",
			base:  10,
			limit: 5,
			loads: func() []int {
				loads := filledLoads(45, 5)
				loads[2] = 0
				loads[6] = 4
				return loads
			},
			expected: BalanceResult{ChosenDay: 7, BaseInterval: 10, Phase: PhaseBackward},
		},
		{
			name:  "fallback to the least loaded day of the window",
			base:  10,
			limit: 5,
			loads: func() []int {
				loads := filledLoads(45, 9)
				loads[12] = 6
				loads[30] = 5
				return loads
			},
			expected: BalanceResult{ChosenDay: 13, BaseInterval: 10, Phase: PhaseFallback},
		},
		{
			name:  "no loads means no balancing",
			base:  10,
			limit: 5,
			loads: func() []int { return nil },
			expected: BalanceResult{ChosenDay: 10, BaseInterval: 10, Phase: PhaseBase},
		},
		{
			name:  "zero limit means no balancing",
			base:  3,
			limit: 0,
			loads: func() []int { return filledLoads(45, 9) },
			expected: BalanceResult{ChosenDay: 3, BaseInterval: 3, Phase: PhaseBase},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindOptimalDay(BalanceParams{
				BaseInterval: tt.base,
				DailyLimit:   tt.limit,
				Loads:        tt.loads(),
			})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFindOptimalDayForStrong(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		limit    int
		loads    func() []int
		expected BalanceResult
	}{
		{
			name:  "quiet base day is kept",
			base:  10,
			limit: 10,
			loads: func() []int {
				loads := make([]int, 45)
				loads[9] = 6
				return loads
			},
			expected: BalanceResult{ChosenDay: 10, BaseInterval: 10, Phase: PhaseBase},
		},
		{
			name:  "busy base day moves to the quietest day of the window",
			base:  10,
			limit: 10,
			loads: func() []int {
				loads := filledLoads(45, 8)
				loads[9] = 7
				loads[10] = 5
				loads[11] = 3
				loads[13] = 3
				return loads
			},
			expected: BalanceResult{ChosenDay: 12, BaseInterval: 10, Phase: PhaseBestFit},
		},
		{
			name:  "relaxes to full capacity",
			base:  10,
			limit: 10,
			loads: func() []int {
				loads := filledLoads(45, 9)
				loads[9] = 10
				loads[10] = 12
				return loads
			},
			expected: BalanceResult{ChosenDay: 12, BaseInterval: 10, Phase: PhaseForward},
		},
		{
			name:  "backward when every later day is full",
			base:  10,
			limit: 10,
			loads: func() []int {
				loads := filledLoads(45, 10)
				loads[4] = 9
				return loads
			},
			expected: BalanceResult{ChosenDay: 5, BaseInterval: 10, Phase: PhaseBackward},
		},
		{
			name:  "fallback when everything is full",
			base:  10,
			limit: 10,
			loads: func() []int {
				loads := filledLoads(45, 12)
				loads[13] = 10
				return loads
			},
			expected: BalanceResult{ChosenDay: 14, BaseInterval: 10, Phase: PhaseFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindOptimalDayForStrong(BalanceParams{
				BaseInterval: tt.base,
				DailyLimit:   tt.limit,
				Loads:        tt.loads(),
			})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFindOptimalDay_ZeroLoadsAreIdempotent(t *testing.T) {
	loads := make([]int, 45)
	for base := 1; base <= 45; base++ {
		p := BalanceParams{BaseInterval: base, DailyLimit: 20, Loads: loads}
		assert.Equal(t, base, FindOptimalDay(p).ChosenDay, "base %d", base)
		assert.Equal(t, base, FindOptimalDayForStrong(p).ChosenDay, "base %d", base)
	}
}

func TestFindOptimalDay_ChosenDayIsInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		days := 1 + rng.Intn(60)
		limit := 1 + rng.Intn(10)
		loads := make([]int, days)
		for d := range loads {
			loads[d] = rng.Intn(limit * 2)
		}
		p := BalanceParams{BaseInterval: 1 + rng.Intn(days), DailyLimit: limit, Loads: loads}

		for _, got := range []BalanceResult{FindOptimalDay(p), FindOptimalDayForStrong(p)} {
			assert.GreaterOrEqual(t, got.ChosenDay, 1)
			assert.LessOrEqual(t, got.ChosenDay, days)
			if got.Phase != PhaseFallback {
				assert.Less(t, loads[got.ChosenDay-1], limit, "phase %s", got.Phase)
			}
		}
	}
}

func TestEnforceDailyLimit(t *testing.T) {
	tests := []struct {
		name     string
		target   int
		loads    []int
		limit    int
		expected int
	}{
		{name: "room on target", target: 2, loads: []int{5, 1, 0}, limit: 5, expected: 2},
		{name: "next day with room", target: 1, loads: []int{5, 5, 0}, limit: 5, expected: 3},
		{name: "earlier day with room", target: 3, loads: []int{4, 5, 5}, limit: 5, expected: 1},
		{name: "everything full keeps target", target: 2, loads: []int{5, 5, 5}, limit: 5, expected: 2},
		{name: "target clipped to the vector", target: 9, loads: []int{0, 0, 0}, limit: 5, expected: 3},
		{name: "no loads", target: 4, loads: nil, limit: 5, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnforceDailyLimit(tt.target, tt.loads, tt.limit))
		})
	}
}
