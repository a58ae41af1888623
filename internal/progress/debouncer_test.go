package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writeRecorder struct {
	mu      sync.Mutex
	indexes []int
	err     error
}

func (r *writeRecorder) write(_ context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes = append(r.indexes, index)
	return r.err
}

func (r *writeRecorder) written() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.indexes...)
}

func TestDebouncer_FlushWritesLatestOnly(t *testing.T) {
	rec := &writeRecorder{}
	d := NewDebouncer(time.Hour, rec.write)

	d.Schedule(1)
	d.Schedule(2)
	d.Schedule(3)
	assert.True(t, d.Pending())

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, []int{3}, rec.written())
	assert.False(t, d.Pending())

	require.NoError(t, d.Flush(context.Background()))
	assert.Equal(t, []int{3}, rec.written())
}

func TestDebouncer_CancelDropsPendingWrite(t *testing.T) {
	rec := &writeRecorder{}
	d := NewDebouncer(time.Hour, rec.write)

	d.Schedule(7)
	d.Cancel()
	assert.False(t, d.Pending())

	require.NoError(t, d.Flush(context.Background()))
	assert.Empty(t, rec.written())
}

func TestDebouncer_TimerWritesAfterDelay(t *testing.T) {
	rec := &writeRecorder{}
	d := NewDebouncer(10*time.Millisecond, rec.write)

	d.Schedule(4)
	d.Schedule(5)

	assert.Eventually(t, func() bool {
		return len(rec.written()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{5}, rec.written())
	assert.False(t, d.Pending())
}

func TestDebouncer_ZeroDelayWritesImmediately(t *testing.T) {
	rec := &writeRecorder{}
	d := NewDebouncer(0, rec.write)

	d.Schedule(1)
	d.Schedule(2)
	assert.Equal(t, []int{1, 2}, rec.written())
}

func TestDebouncer_Errors(t *testing.T) {
	rec := &writeRecorder{err: errors.New("connection refused")}

	t.Run("flush returns the write error", func(t *testing.T) {
		d := NewDebouncer(time.Hour, rec.write)
		d.Schedule(1)
		assert.ErrorContains(t, d.Flush(context.Background()), "connection refused")
	})

	t.Run("timer write errors are swallowed", func(t *testing.T) {
		d := NewDebouncer(0, rec.write)
		assert.NotPanics(t, func() { d.Schedule(2) })
		assert.False(t, d.Pending())
	})
}
