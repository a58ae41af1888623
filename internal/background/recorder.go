package background

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatch is one task handed to a Recorder.
type Dispatch struct {
	Name string
	Ran  bool
	Err  error
}

// Recorder keeps dispatched tasks until Wait runs them. Tests use it to assert on work that
// was dispatched but not awaited.
type Recorder struct {
	mu         sync.Mutex
	dispatches []Dispatch
	tasks      []Task
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Go implements Runner.
func (r *Recorder) Go(name string, task Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches = append(r.dispatches, Dispatch{Name: name})
	r.tasks = append(r.tasks, task)
}

// Wait runs pending tasks in dispatch order, including tasks dispatched while running.
func (r *Recorder) Wait() {
	for i := 0; ; i++ {
		r.mu.Lock()
		if i >= len(r.tasks) {
			r.mu.Unlock()
			return
		}
		if r.dispatches[i].Ran {
			r.mu.Unlock()
			continue
		}
		task, name := r.tasks[i], r.dispatches[i].Name
		r.dispatches[i].Ran = true
		r.mu.Unlock()

		err := task(context.Background())
		if err != nil {
			slog.Warn("background task failed", "task", name, "error", err)
		}
		r.mu.Lock()
		r.dispatches[i].Err = err
		r.mu.Unlock()
	}
}

// Dispatches returns every task dispatched so far.
func (r *Recorder) Dispatches() []Dispatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Dispatch(nil), r.dispatches...)
}

// Names returns the names of every task dispatched so far.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.dispatches))
	for i, d := range r.dispatches {
		names[i] = d.Name
	}
	return names
}

// Pending returns the number of tasks that have not run yet.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.dispatches {
		if !d.Ran {
			n++
		}
	}
	return n
}
