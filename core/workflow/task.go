package workflow

import (
	"context"
	"time"
)

// A TaskFn is an individually executable unit of work. When ctx is
// cancelled, such as via a timeout, the function should return promptly.
type TaskFn func(ctx context.Context, in Inputs) (any, error)

// Runnable is an entity a workflow can schedule as a node: a *Task or a
// *Workflow.
type Runnable interface {
	Name() string
	runnable()
}

// Task is a named unit of work together with its execution settings.
type Task struct {
	name         string
	fn           TaskFn
	cacheVersion string
	retries      int
	timeout      time.Duration
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// WithCache marks the task output as cacheable under the given version.
// Bumping the version invalidates previous entries.
func WithCache(version string) TaskOption {
	return func(t *Task) {
		t.cacheVersion = version
	}
}

// WithRetries allows n additional attempts after a failure.
func WithRetries(n int) TaskOption {
	return func(t *Task) {
		if n > 0 {
			t.retries = n
		}
	}
}

// WithTimeout bounds every attempt of the task.
func WithTimeout(d time.Duration) TaskOption {
	return func(t *Task) {
		t.timeout = d
	}
}

// NewTask constructs a Task.
func NewTask(name string, fn TaskFn, opts ...TaskOption) *Task {
	t := &Task{name: name, fn: fn}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// CacheVersion returns the cache version, or "" if the task is not cached.
func (t *Task) CacheVersion() string { return t.cacheVersion }

// Retries returns the number of retries after the first attempt.
func (t *Task) Retries() int { return t.retries }

func (t *Task) runnable() {}
