// Package lapse runs Expanding Retrieval Practice over items that were recently forgotten.
// Items sit in one in-memory queue and are re-inserted at growing offsets from the head
// until they have been recalled quickly at every gap.
package lapse

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/at-ishikawa/vocabreview/internal/learning"
)

// DefaultGaps are the re-insertion offsets, one per gap level.
var DefaultGaps = []int{1, 3, 7, 15}

// SlowAnswer is the reaction time at which a correct answer no longer advances the gap level.
const SlowAnswer = 4 * time.Second

var (
	ErrEmptyQueue = errors.New("lapse queue is empty")
	ErrNotHead    = errors.New("item is not at the head of the lapse queue")
)

// Outcome describes what one answer did to an item.
type Outcome struct {
	ItemID        int64
	Word          string
	Remembered    bool
	Elapsed       time.Duration
	PreviousLevel int
	NewLevel      int
	Graduated     bool
}

// Session is a single-owner queue; it is not safe for concurrent use.
type Session struct {
	gaps      []int
	queue     []learning.Item
	levels    map[int64]int
	graduated []learning.Item
	initial   int
	count     int
}

// NewSession starts practice over items in the given order. An empty gaps slice uses DefaultGaps.
func NewSession(items []learning.Item, gaps []int) *Session {
	return RestoreSession(items, gaps, len(items))
}

// RestoreSession rebuilds a session from a saved snapshot. Items missing from the snapshot
// compared with initialCount are counted as already graduated.
func RestoreSession(items []learning.Item, gaps []int, initialCount int) *Session {
	if len(gaps) == 0 {
		gaps = DefaultGaps
	}
	initialCount = max(initialCount, len(items))
	return &Session{
		gaps:    slices.Clone(gaps),
		queue:   slices.Clone(items),
		levels:  make(map[int64]int, len(items)),
		initial: initialCount,
		count:   initialCount - len(items),
	}
}

// Head returns the item to practice next.
func (s *Session) Head() (learning.Item, bool) {
	if len(s.queue) == 0 {
		return learning.Item{}, false
	}
	return s.queue[0], true
}

// Answer records the result for the head item.
func (s *Session) Answer(id int64, remembered bool, elapsed time.Duration) (Outcome, error) {
	if len(s.queue) == 0 {
		return Outcome{}, ErrEmptyQueue
	}
	item := s.queue[0]
	if item.ID != id {
		return Outcome{}, ErrNotHead
	}
	s.queue = s.queue[1:]

	current := s.levels[id]
	outcome := Outcome{
		ItemID:        id,
		Word:          item.Word,
		Remembered:    remembered,
		Elapsed:       elapsed,
		PreviousLevel: current,
	}

	if !remembered {
		s.levels[id] = 0
		s.insert(item, s.gaps[0])
		return outcome, nil
	}

	level := current
	if elapsed < SlowAnswer {
		level++
	}
	outcome.NewLevel = level

	if level >= len(s.gaps) {
		outcome.Graduated = true
		s.graduate(item)
		return outcome, nil
	}
	s.levels[id] = level
	s.insert(item, s.gaps[level])
	return outcome, nil
}

// Stop takes the head item out of practice. It counts as graduated.
func (s *Session) Stop(id int64) error {
	if len(s.queue) == 0 {
		return ErrEmptyQueue
	}
	if s.queue[0].ID != id {
		return ErrNotHead
	}
	item := s.queue[0]
	s.queue = s.queue[1:]
	s.graduate(item)
	return nil
}

// Remove drops an item wherever it is. Removing a queued item counts toward the graduated
// total but the item is not listed in Graduated; removing an already graduated one only
// forgets it. It reports whether the queue changed.
func (s *Session) Remove(id int64) bool {
	if i := slices.IndexFunc(s.queue, func(it learning.Item) bool { return it.ID == id }); i >= 0 {
		s.queue = slices.Delete(s.queue, i, i+1)
		s.count++
		delete(s.levels, id)
		return true
	}
	s.graduated = slices.DeleteFunc(s.graduated, func(it learning.Item) bool { return it.ID == id })
	return false
}

func (s *Session) insert(item learning.Item, offset int) {
	pos := min(offset, len(s.queue))
	s.queue = slices.Insert(s.queue, pos, item)
}

func (s *Session) graduate(item learning.Item) {
	s.count++
	s.graduated = append(s.graduated, item)
	delete(s.levels, item.ID)
}

func (s *Session) Len() int { return len(s.queue) }

func (s *Session) Done() bool { return len(s.queue) == 0 }

// GapLevel returns the current level of a queued item; items never answered are at level 0.
func (s *Session) GapLevel(id int64) int { return s.levels[id] }

func (s *Session) Graduated() []learning.Item { return slices.Clone(s.graduated) }

func (s *Session) GraduatedCount() int { return s.count }

func (s *Session) InitialCount() int { return s.initial }

// Progress is the graduated share of the initial queue as a whole percentage.
func (s *Session) Progress() int {
	if s.initial == 0 {
		return 0
	}
	return int(math.Round(float64(s.count) / float64(s.initial) * 100))
}

// IDs returns the queue order, which is what gets persisted as the snapshot.
func (s *Session) IDs() []int64 {
	return learning.IDs(s.queue)
}
