package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsyncRunner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewAsyncRunner(ctx)
	cancel()

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		runner.Go("count", func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			done.Add(1)
			return nil
		})
	}
	runner.Go("fail", func(context.Context) error { return errors.New("write failed") })
	runner.Go("panic", func(context.Context) error { panic("boom") })

	runner.Wait()
	assert.Equal(t, int32(5), done.Load())
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	var order []string

	rec.Go("first", func(context.Context) error {
		order = append(order, "first")
		rec.Go("nested", func(context.Context) error {
			order = append(order, "nested")
			return nil
		})
		return nil
	})
	rec.Go("second", func(context.Context) error {
		order = append(order, "second")
		return errors.New("connection refused")
	})

	assert.Empty(t, order)
	assert.Equal(t, 2, rec.Pending())
	assert.Equal(t, []string{"first", "second"}, rec.Names())

	rec.Wait()
	assert.Equal(t, []string{"first", "second", "nested"}, order)
	assert.Equal(t, 0, rec.Pending())

	dispatches := rec.Dispatches()
	assert.Len(t, dispatches, 3)
	assert.NoError(t, dispatches[0].Err)
	assert.EqualError(t, dispatches[1].Err, "connection refused")
	assert.True(t, dispatches[2].Ran)

	rec.Wait()
	assert.Len(t, order, 3)
}
