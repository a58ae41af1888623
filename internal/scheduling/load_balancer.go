package scheduling

import "math"

// Phase names the search step that picked a day.
type Phase string

const (
	PhaseBase     Phase = "base"
	PhaseFirstFit Phase = "first_fit"
	PhaseBestFit  Phase = "best_fit"
	PhaseForward  Phase = "forward"
	PhaseBackward Phase = "backward"
	PhaseFallback Phase = "fallback"
)

const (
	DefaultMaxDeviationRatio = 0.5
	DefaultMaxDeviationDays  = 7
	DefaultMinDeviationDays  = 1

	// strongLoadRatio is the share of the daily limit a strong item's day may already hold
	// before the item is moved.
	strongLoadRatio = 0.7
)

// BalanceParams describes one load-balancing request.
// Loads[i] is the number of items already scheduled i+1 days from today.
type BalanceParams struct {
	BaseInterval int
	DailyLimit   int
	Loads        []int

	// Zero values fall back to the defaults above.
	MaxDeviationRatio float64
	MaxDeviationDays  int
	MinDeviationDays  int
}

// BalanceResult is the day chosen by the load balancer.
type BalanceResult struct {
	ChosenDay    int
	BaseInterval int
	Phase        Phase
}

func (p BalanceParams) withDefaults() BalanceParams {
	if p.MaxDeviationRatio <= 0 {
		p.MaxDeviationRatio = DefaultMaxDeviationRatio
	}
	if p.MaxDeviationDays <= 0 {
		p.MaxDeviationDays = DefaultMaxDeviationDays
	}
	if p.MinDeviationDays <= 0 {
		p.MinDeviationDays = DefaultMinDeviationDays
	}
	return p
}

func (p BalanceParams) unbalanced() bool {
	return len(p.Loads) == 0 || p.DailyLimit <= 0 || p.BaseInterval < 1
}

func (p BalanceParams) result(day int, phase Phase) BalanceResult {
	return BalanceResult{ChosenDay: day, BaseInterval: p.BaseInterval, Phase: phase}
}

// SearchWindow returns the inclusive day range [start, end] around the base interval,
// clipped to the length of the load vector.
func SearchWindow(p BalanceParams) (int, int) {
	p = p.withDefaults()
	offset := int(math.Floor(float64(p.BaseInterval) * p.MaxDeviationRatio))
	offset = min(max(p.MinDeviationDays, offset), p.MaxDeviationDays)

	maxDay := len(p.Loads)
	start := min(max(p.BaseInterval, 1), maxDay)
	end := min(p.BaseInterval+offset, maxDay)
	return start, end
}

// FindOptimalDay spreads fragile items: it takes the earliest day with spare capacity in
// the window, then after it, then before it, and finally the least-loaded day of the window
// even if that day is already full.
func FindOptimalDay(p BalanceParams) BalanceResult {
	if p.unbalanced() {
		return p.result(p.BaseInterval, PhaseBase)
	}
	start, end := SearchWindow(p)

	for day := start; day <= end; day++ {
		if p.Loads[day-1] < p.DailyLimit {
			return p.result(day, PhaseFirstFit)
		}
	}
	if day, ok := firstUnderLimit(p.Loads, end+1, p.DailyLimit); ok {
		return p.result(day, PhaseForward)
	}
	if day, ok := lastUnderLimit(p.Loads, start-1, p.DailyLimit); ok {
		return p.result(day, PhaseBackward)
	}
	return p.result(leastLoaded(p.Loads, start, end), PhaseFallback)
}

// FindOptimalDayForStrong keeps well-established items on their base day unless that day
// is already busy, in which case it prefers the quietest day of the window.
func FindOptimalDayForStrong(p BalanceParams) BalanceResult {
	if p.unbalanced() {
		return p.result(p.BaseInterval, PhaseBase)
	}
	maxDay := len(p.Loads)
	threshold := float64(p.DailyLimit) * strongLoadRatio

	if p.BaseInterval <= maxDay && float64(p.Loads[p.BaseInterval-1]) < threshold {
		return p.result(p.BaseInterval, PhaseBase)
	}

	start, end := SearchWindow(p)
	bestDay, bestLoad := 0, math.MaxInt
	for day := start; day <= end; day++ {
		load := p.Loads[day-1]
		if float64(load) < threshold && load < bestLoad {
			bestDay, bestLoad = day, load
		}
	}
	if bestDay > 0 {
		return p.result(bestDay, PhaseBestFit)
	}

	if day, ok := firstUnderLimit(p.Loads, start, p.DailyLimit); ok {
		return p.result(day, PhaseForward)
	}
	if day, ok := lastUnderLimit(p.Loads, start-1, p.DailyLimit); ok {
		return p.result(day, PhaseBackward)
	}
	return p.result(leastLoaded(p.Loads, start, end), PhaseFallback)
}

// EnforceDailyLimit is a hard cap without spreading: the target day if it has room,
// otherwise the nearest later day with room, otherwise the nearest earlier one.
func EnforceDailyLimit(target int, loads []int, limit int) int {
	if len(loads) == 0 || target < 1 || limit <= 0 {
		return target
	}
	day := min(target, len(loads))
	if loads[day-1] < limit {
		return day
	}
	if d, ok := firstUnderLimit(loads, day+1, limit); ok {
		return d
	}
	if d, ok := lastUnderLimit(loads, day-1, limit); ok {
		return d
	}
	return day
}

func firstUnderLimit(loads []int, from, limit int) (int, bool) {
	for day := max(from, 1); day <= len(loads); day++ {
		if loads[day-1] < limit {
			return day, true
		}
	}
	return 0, false
}

func lastUnderLimit(loads []int, from, limit int) (int, bool) {
	for day := min(from, len(loads)); day >= 1; day-- {
		if loads[day-1] < limit {
			return day, true
		}
	}
	return 0, false
}

func leastLoaded(loads []int, start, end int) int {
	best, bestLoad := start, math.MaxInt
	for day := start; day <= end; day++ {
		if loads[day-1] < bestLoad {
			best, bestLoad = day, loads[day-1]
		}
	}
	return best
}
