// Package background runs fire-and-forget tasks whose failures are logged instead of returned.
package background

import (
	"context"
	"log/slog"
	"sync"
)

// Task is a unit of background work.
type Task func(ctx context.Context) error

// Runner dispatches tasks without waiting for them.
type Runner interface {
	Go(name string, task Task)
	// Wait blocks until every dispatched task has finished.
	Wait()
}

// AsyncRunner runs each task on its own goroutine.
type AsyncRunner struct {
	ctx context.Context
	wg  sync.WaitGroup
}

// NewAsyncRunner creates a runner whose tasks share ctx. Cancelling the caller's context does
// not cancel the tasks.
func NewAsyncRunner(ctx context.Context) *AsyncRunner {
	return &AsyncRunner{ctx: context.WithoutCancel(ctx)}
}

// Go implements Runner.
func (r *AsyncRunner) Go(name string, task Task) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("background task panicked", "task", name, "panic", p)
			}
		}()
		if err := task(r.ctx); err != nil {
			slog.Warn("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait implements Runner.
func (r *AsyncRunner) Wait() {
	r.wg.Wait()
}
