package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WriteFunc persists a cursor position.
type WriteFunc func(ctx context.Context, index int) error

// Debouncer coalesces cursor writes: only the latest index is written, at most once per delay.
type Debouncer struct {
	delay time.Duration
	write WriteFunc

	// writeMu is held for the whole of a write and is always taken before mu.
	writeMu sync.Mutex
	mu      sync.Mutex
	timer   *time.Timer
	pending *int
}

// NewDebouncer creates a Debouncer. A non-positive delay writes on every Schedule.
func NewDebouncer(delay time.Duration, write WriteFunc) *Debouncer {
	return &Debouncer{delay: delay, write: write}
}

// Schedule records index as the latest cursor and arms the timer if it is not running.
func (d *Debouncer) Schedule(index int) {
	d.mu.Lock()
	d.pending = &index
	if d.delay <= 0 {
		d.mu.Unlock()
		d.fire()
		return
	}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
	}
	d.mu.Unlock()
}

// Flush writes the pending index now, if any.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	index, ok := d.take()
	if !ok {
		return nil
	}
	return d.write(ctx, index)
}

// Cancel drops the pending index. When it returns, no write started before the call is
// still running.
func (d *Debouncer) Cancel() {
	d.take()
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
}

// Pending reports whether a write is waiting.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire() {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	index, ok := d.take()
	if !ok {
		return
	}
	if err := d.write(context.Background(), index); err != nil {
		slog.Warn("failed to save review progress", "index", index, "error", err)
	}
}

func (d *Debouncer) take() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending == nil {
		return 0, false
	}
	index := *d.pending
	d.pending = nil
	return index, true
}
