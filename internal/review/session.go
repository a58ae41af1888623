// Package review drives one review session: it builds the id snapshot for a mode, pages
// items in, schedules every answer and keeps the saved progress current.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/at-ishikawa/vocabreview/internal/background"
	"github.com/at-ishikawa/vocabreview/internal/date"
	"github.com/at-ishikawa/vocabreview/internal/lapse"
	"github.com/at-ishikawa/vocabreview/internal/learning"
	"github.com/at-ishikawa/vocabreview/internal/progress"
)

const (
	DefaultBatchSize      = 20
	DefaultQueueThreshold = 5
)

var (
	ErrNoSession    = errors.New("no active review session")
	ErrNotCurrent   = errors.New("item is not the current item")
	ErrItemNotFound = errors.New("item is not in the session")
	ErrInvalidMode  = errors.New("invalid review mode")
)

// QueueOptions control how the id snapshot is paged in.
type QueueOptions struct {
	BatchSize int
	// A page is prefetched once this many or fewer items are left in the buffer.
	QueueThreshold int
	// TotalLimit caps the snapshot; 0 means no cap.
	TotalLimit int
}

// RetryOptions control retries of item writes.
type RetryOptions struct {
	Attempts uint
	Delay    time.Duration
}

type Options struct {
	Queue    QueueOptions
	Debounce time.Duration
	Retry    RetryOptions
}

// Dependencies are the collaborators of a Session.
type Dependencies struct {
	Items    learning.ItemRepository
	History  learning.HistoryRepository
	Progress progress.Repository
	Settings SettingsProvider
	Clock    date.Clock
	Runner   background.Runner
}

// StartOptions select what a new session reviews.
type StartOptions struct {
	Mode    learning.Mode
	Source  string
	Shuffle bool
}

// Session owns the state of one user's review. Its methods may be called from several
// goroutines; background page fetches synchronize on the same lock.
type Session struct {
	items            learning.ItemRepository
	history          learning.HistoryRepository
	progress         progress.Repository
	settingsProvider SettingsProvider
	clock            date.Clock
	runner           background.Runner
	opts             Options
	cursorWriter     *progress.Debouncer

	mu          sync.Mutex
	generation  int
	active      bool
	mode        learning.Mode
	source      string
	shuffle     bool
	settings    Settings
	ids         []int64
	cursor      int
	next        int
	buffer      []learning.Item
	prefetching bool
	lapse       *lapse.Session
	loads       map[learning.Mode][]int

	// lastPersist is closed when the most recently dispatched progress write finishes.
	persistMu   sync.Mutex
	lastPersist chan struct{}
}

// NewSession creates an idle Session. Call Start or Restore before answering.
func NewSession(deps Dependencies, opts Options) *Session {
	if opts.Queue.BatchSize <= 0 {
		opts.Queue.BatchSize = DefaultBatchSize
	}
	if opts.Queue.QueueThreshold < 0 {
		opts.Queue.QueueThreshold = DefaultQueueThreshold
	}
	if opts.Retry.Attempts == 0 {
		opts.Retry.Attempts = 1
	}
	return &Session{
		items:            deps.Items,
		history:          deps.History,
		progress:         deps.Progress,
		settingsProvider: deps.Settings,
		clock:            deps.Clock,
		runner:           deps.Runner,
		opts:             opts,
		cursorWriter:     progress.NewDebouncer(opts.Debounce, deps.Progress.UpdateIndex),
		loads:            make(map[learning.Mode][]int),
	}
}

// Start begins a fresh session and saves its snapshot. A pending cursor write of the
// previous session is dropped first so it cannot overwrite the new cursor.
func (s *Session) Start(ctx context.Context, opts StartOptions) error {
	if !opts.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
	}
	s.cursorWriter.Cancel()

	settings, err := s.settingsProvider.Settings(ctx)
	if err != nil {
		return fmt.Errorf("settingsProvider.Settings() > %w", err)
	}
	today := s.clock.Today()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false

	if opts.Mode == learning.ModeLapse {
		items, err := s.items.FindLapsed(ctx, opts.Source)
		if err != nil {
			return fmt.Errorf("items.FindLapsed(%s) > %w", opts.Source, err)
		}
		if opts.Shuffle {
			items = lo.Shuffle(items)
		}
		if limit := s.opts.Queue.TotalLimit; limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		s.beginLocked(opts, settings)
		s.lapse = lapse.NewSession(items, settings.LapseGaps)
		s.ids = s.lapse.IDs()
		s.saveLocked(ctx)
		return nil
	}

	ids, err := s.fetchIDs(ctx, opts, settings, today)
	if err != nil {
		return err
	}
	if limit := s.opts.Queue.TotalLimit; limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	s.beginLocked(opts, settings)
	s.ids = ids
	s.saveLocked(ctx)
	if err := s.fillLocked(ctx); err != nil {
		s.active = false
		return err
	}
	return nil
}

func (s *Session) fetchIDs(ctx context.Context, opts StartOptions, settings Settings, today date.Date) ([]int64, error) {
	switch opts.Mode {
	case learning.ModeReview:
		due, err := s.items.DueReviewIDs(ctx, opts.Source, today)
		if err != nil {
			return nil, fmt.Errorf("items.DueReviewIDs(%s) > %w", opts.Source, err)
		}
		extra, err := s.items.LowEaseIDs(ctx, opts.Source, today, due, settings.LowEFExtraCount)
		if err != nil {
			return nil, fmt.Errorf("items.LowEaseIDs(%s) > %w", opts.Source, err)
		}
		ids := append(slices.Clone(due), extra...)
		if opts.Shuffle {
			ids = lo.Shuffle(ids)
		}
		return ids, nil
	case learning.ModeSpelling:
		groups, err := s.items.SpellingIDs(ctx, opts.Source, today)
		if err != nil {
			return nil, fmt.Errorf("items.SpellingIDs(%s) > %w", opts.Source, err)
		}
		if opts.Shuffle {
			groups.Due = lo.Shuffle(groups.Due)
			groups.Unspelled = lo.Shuffle(groups.Unspelled)
			groups.Upcoming = lo.Shuffle(groups.Upcoming)
		}
		return groups.All(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, opts.Mode)
}

// Restore resumes the saved session. It reports false when there is nothing to resume,
// including when the saved snapshot is corrupt or no longer consistent.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	s.cursorWriter.Cancel()

	saved, err := s.progress.Get(ctx)
	if errors.Is(err, progress.ErrCorruptSnapshot) {
		slog.Warn("discarding unreadable review progress", "error", err)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("progress.Get() > %w", err)
	}
	if saved == nil || !saved.Mode.Valid() || len(saved.ItemIDs) == 0 {
		return false, nil
	}

	settings, err := s.settingsProvider.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("settingsProvider.Settings() > %w", err)
	}
	opts := StartOptions{Mode: saved.Mode, Source: saved.Source, Shuffle: saved.Shuffle}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false

	if saved.Mode == learning.ModeLapse {
		return s.restoreLapseLocked(ctx, opts, settings, saved)
	}

	if saved.CurrentIndex < 0 || saved.CurrentIndex >= len(saved.ItemIDs) {
		slog.Debug("saved cursor is outside the snapshot", "index", saved.CurrentIndex, "total", len(saved.ItemIDs))
		return false, nil
	}
	s.beginLocked(opts, settings)
	s.ids = slices.Clone(saved.ItemIDs)
	s.cursor = saved.CurrentIndex
	s.next = saved.CurrentIndex
	if err := s.fillLocked(ctx); err != nil {
		s.active = false
		return false, err
	}
	if len(s.buffer) == 0 {
		s.active = false
		return false, nil
	}
	return true, nil
}

// restoreLapseLocked keeps only the saved items that are still in the lapse pool. Items
// that left it count as graduated.
func (s *Session) restoreLapseLocked(ctx context.Context, opts StartOptions, settings Settings, saved *progress.Progress) (bool, error) {
	valid, err := s.items.FilterLapsed(ctx, saved.ItemIDs)
	if err != nil {
		return false, fmt.Errorf("items.FilterLapsed() > %w", err)
	}
	if len(valid) == 0 {
		return false, nil
	}
	items, err := s.items.FindByIDs(ctx, valid)
	if err != nil {
		return false, fmt.Errorf("items.FindByIDs() > %w", err)
	}
	if len(items) == 0 {
		return false, nil
	}

	s.beginLocked(opts, settings)
	s.lapse = lapse.RestoreSession(items, settings.LapseGaps, saved.InitialCount)
	s.ids = s.lapse.IDs()
	if len(s.ids) < len(saved.ItemIDs) {
		slog.Info("dropped items that left the lapse pool", "before", len(saved.ItemIDs), "after", len(s.ids))
		s.persistSnapshotLocked()
	}
	return true, nil
}

func (s *Session) beginLocked(opts StartOptions, settings Settings) {
	s.generation++
	s.active = true
	s.mode = opts.Mode
	s.source = opts.Source
	s.shuffle = opts.Shuffle
	s.settings = settings
	s.ids = nil
	s.cursor = 0
	s.next = 0
	s.buffer = nil
	s.prefetching = false
	s.lapse = nil
	s.loads = make(map[learning.Mode][]int)
}

// saveLocked writes the new snapshot. A session with nothing to review clears the saved
// progress instead, so an abandoned session cannot be resumed. A failure only costs the
// ability to resume.
func (s *Session) saveLocked(ctx context.Context) {
	if len(s.ids) == 0 {
		if err := s.progress.Clear(ctx); err != nil {
			slog.Warn("failed to clear review progress", "mode", s.mode, "error", err)
		}
		return
	}
	saved := progress.Progress{
		Mode:         s.mode,
		Source:       s.source,
		Shuffle:      s.shuffle,
		ItemIDs:      slices.Clone(s.ids),
		CurrentIndex: s.cursor,
	}
	if s.lapse != nil {
		saved.InitialCount = s.lapse.InitialCount()
	}
	if err := s.progress.Save(ctx, saved); err != nil {
		slog.Warn("failed to save review progress", "mode", s.mode, "error", err)
	}
}

// persistLocked dispatches a progress write. Writes run in dispatch order even on a runner
// that finishes tasks out of order.
func (s *Session) persistLocked(name string, write background.Task) {
	s.persistMu.Lock()
	prev := s.lastPersist
	done := make(chan struct{})
	s.lastPersist = done
	s.persistMu.Unlock()

	s.runner.Go(name, func(ctx context.Context) error {
		defer close(done)
		if prev != nil {
			<-prev
		}
		return write(ctx)
	})
}

func (s *Session) persistSnapshotLocked() {
	ids := slices.Clone(s.ids)
	if s.lapse != nil {
		ids = s.lapse.IDs()
	}
	s.persistLocked("update progress snapshot", func(ctx context.Context) error {
		return s.progress.UpdateSnapshot(ctx, ids)
	})
}

func (s *Session) pageLocked() []int64 {
	end := min(s.next+s.opts.Queue.BatchSize, len(s.ids))
	return slices.Clone(s.ids[s.next:end])
}

// fillLocked loads pages until the buffer has an item or the snapshot is exhausted.
func (s *Session) fillLocked(ctx context.Context) error {
	for len(s.buffer) == 0 && s.next < len(s.ids) {
		start, page := s.next, s.pageLocked()
		items, err := s.items.FindByIDs(ctx, page)
		if err != nil {
			return fmt.Errorf("items.FindByIDs() > %w", err)
		}
		s.appendPageLocked(start, page, items)
	}
	return nil
}

// appendPageLocked adds a fetched page to the buffer unless another fetch already did.
// Ids removed from the snapshot while the page was fetched are skipped, and ids that no
// longer resolve to an item are dropped from the snapshot.
func (s *Session) appendPageLocked(start int, page []int64, items []learning.Item) {
	if s.next != start {
		return
	}
	window := s.ids[start:min(start+len(page), len(s.ids))]
	page = lo.Filter(page, func(id int64, _ int) bool { return slices.Contains(window, id) })
	items = lo.Filter(items, func(it learning.Item, _ int) bool { return slices.Contains(page, it.ID) })
	if missing := lo.Without(page, learning.IDs(items)...); len(missing) > 0 {
		s.ids = slices.DeleteFunc(s.ids, func(id int64) bool { return slices.Contains(missing, id) })
		slog.Info("dropped deleted items from the snapshot", "ids", missing)
		s.persistSnapshotLocked()
	}
	s.buffer = append(s.buffer, items...)
	s.next = start + len(items)
}

func (s *Session) maybePrefetchLocked() {
	if s.prefetching || s.next >= len(s.ids) || len(s.buffer) > s.opts.Queue.QueueThreshold {
		return
	}
	s.prefetching = true
	generation, start, page := s.generation, s.next, s.pageLocked()

	s.runner.Go("prefetch items", func(ctx context.Context) error {
		items, err := s.items.FindByIDs(ctx, page)

		s.mu.Lock()
		defer s.mu.Unlock()
		if generation != s.generation {
			return nil
		}
		s.prefetching = false
		if err != nil {
			return fmt.Errorf("items.FindByIDs() > %w", err)
		}
		s.appendPageLocked(start, page, items)
		return nil
	})
}

// Current returns the item to answer next. It reports false when the session is done.
func (s *Session) Current(ctx context.Context) (learning.Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return learning.Item{}, false, ErrNoSession
	}
	return s.currentLocked(ctx)
}

func (s *Session) currentLocked(ctx context.Context) (learning.Item, bool, error) {
	if s.lapse != nil {
		item, ok := s.lapse.Head()
		return item, ok, nil
	}
	if err := s.fillLocked(ctx); err != nil {
		return learning.Item{}, false, err
	}
	if len(s.buffer) == 0 {
		return learning.Item{}, false, nil
	}
	return s.buffer[0], true, nil
}

// advanceLocked moves past the current item.
func (s *Session) advanceLocked() {
	s.buffer = s.buffer[1:]
	s.cursor++
	if s.cursor >= len(s.ids) {
		s.finishLocked()
		return
	}
	s.cursorWriter.Schedule(s.cursor)
	s.maybePrefetchLocked()
}

// finishLocked drops the saved progress of a completed session.
func (s *Session) finishLocked() {
	s.cursorWriter.Cancel()
	s.persistLocked("clear progress", s.progress.Clear)
}

// StopItem retires the current item from every mode and moves past it.
func (s *Session) StopItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrNoSession
	}
	item, ok, err := s.currentLocked(ctx)
	if err != nil {
		return err
	}
	if !ok || item.ID != id {
		return fmt.Errorf("%w: %d", ErrNotCurrent, id)
	}
	if err := s.writeItem(ctx, func(ctx context.Context) error {
		return s.items.StopReview(ctx, id)
	}); err != nil {
		return fmt.Errorf("items.StopReview(%d) > %w", id, err)
	}

	if s.lapse == nil {
		s.advanceLocked()
		return nil
	}
	if err := s.lapse.Stop(id); err != nil {
		return fmt.Errorf("%w: %w", ErrNotCurrent, err)
	}
	if s.lapse.Done() {
		s.finishLocked()
	} else {
		s.persistSnapshotLocked()
	}
	return nil
}

// RemoveFromSnapshot forgets an item that was deleted elsewhere. The cursor keeps pointing
// at the same upcoming item.
func (s *Session) RemoveFromSnapshot(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrNoSession
	}

	index := slices.Index(s.ids, id)
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrItemNotFound, id)
	}
	s.ids = slices.Delete(s.ids, index, index+1)

	if s.lapse != nil {
		s.lapse.Remove(id)
		if s.lapse.Done() {
			s.finishLocked()
			return nil
		}
		s.persistSnapshotLocked()
		return nil
	}

	switch {
	case index < s.cursor:
		s.cursor--
		s.next--
	case index < s.next:
		s.buffer = slices.DeleteFunc(s.buffer, func(it learning.Item) bool { return it.ID == id })
		s.next--
	}
	if s.cursor >= len(s.ids) {
		s.finishLocked()
		return nil
	}
	s.persistSnapshotLocked()
	s.cursorWriter.Schedule(s.cursor)
	return nil
}

// Mode returns the mode of the active session.
func (s *Session) Mode() learning.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Done reports whether every item of the session has been answered. Without an active
// session there is nothing left to do.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return true
	}
	if s.lapse != nil {
		return s.lapse.Done()
	}
	return s.cursor >= len(s.ids)
}

// GlobalIndex is the number of items already answered. In lapse mode it counts graduated items.
func (s *Session) GlobalIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lapse != nil {
		return s.lapse.GraduatedCount()
	}
	return s.cursor
}

// Total is the size of the snapshot. In lapse mode it is the initial queue size.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lapse != nil {
		return s.lapse.InitialCount()
	}
	return len(s.ids)
}

// Progress is the completed share of the session as a whole percentage.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lapse != nil {
		return s.lapse.Progress()
	}
	if len(s.ids) == 0 {
		return 0
	}
	return int(math.Round(float64(s.cursor) / float64(len(s.ids)) * 100))
}

// Close writes the pending cursor and waits for background work.
func (s *Session) Close(ctx context.Context) error {
	err := s.cursorWriter.Flush(ctx)
	s.runner.Wait()
	if err != nil {
		return fmt.Errorf("cursorWriter.Flush() > %w", err)
	}
	return nil
}

// AdjustHorizon pulls every schedule beyond today+maxPrepDays back to that day, for use after
// the horizon setting was shortened.
func (s *Session) AdjustHorizon(ctx context.Context, maxPrepDays int) (learning.HorizonAdjustment, error) {
	adj, err := s.items.ClampToHorizon(ctx, s.clock.Today(), maxPrepDays)
	if err != nil {
		return learning.HorizonAdjustment{}, fmt.Errorf("items.ClampToHorizon(%d) > %w", maxPrepDays, err)
	}

	s.mu.Lock()
	s.loads = make(map[learning.Mode][]int)
	s.mu.Unlock()
	return adj, nil
}
