package workflow

import (
	"context"
	"errors"
	"time"

	"chainflow/core/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// FailurePolicy decides what happens to the rest of a workflow when a node fails.
type FailurePolicy string

const (
	// FailImmediately stops dispatching new nodes and cancels running ones.
	FailImmediately FailurePolicy = "fail_immediately"
	// FailAfterExecutableNodesComplete only skips the failed node's
	// successors; independent branches run to completion.
	FailAfterExecutableNodesComplete FailurePolicy = "fail_after_executable_nodes_complete"
)

// ErrAborted marks nodes that never ran because the execution was halted.
var ErrAborted = errors.New("execution aborted")

// Recorder receives every finished execution.
type Recorder interface {
	Record(ctx context.Context, exec *Execution) error
}

// Runner executes workflows.
type Runner struct {
	logger      *zap.Logger
	maxParallel int
	policy      FailurePolicy
	cache       Cache
	recorder    Recorder
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMaxParallel bounds the number of concurrently running tasks.
func WithMaxParallel(n int) RunnerOption {
	return func(r *Runner) {
		r.maxParallel = n
	}
}

// WithFailurePolicy sets the failure policy.
func WithFailurePolicy(p FailurePolicy) RunnerOption {
	return func(r *Runner) {
		r.policy = p
	}
}

// WithTaskCache enables output caching for tasks declared WithCache.
func WithTaskCache(c Cache) RunnerOption {
	return func(r *Runner) {
		r.cache = c
	}
}

// WithRecorder registers a Recorder.
func WithRecorder(rec Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// NewRunner creates a Runner. Without options it runs with unbounded
// parallelism, FailImmediately and no cache.
func NewRunner(logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		logger: logger,
		policy: FailImmediately,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRunnerFromConfig creates a Runner configured from cfg with an
// in-memory task cache. opts are applied last.
func NewRunnerFromConfig(cfg Config, logger *zap.Logger, opts ...RunnerOption) *Runner {
	base := []RunnerOption{
		WithMaxParallel(cfg.MaxParallel),
		WithFailurePolicy(cfg.Policy()),
		WithTaskCache(NewMemoryCache(cfg.CacheTTL())),
	}
	return NewRunner(logger, append(base, opts...)...)
}

// Run compiles and executes wf. Nodes start as soon as all their
// predecessors have completed; a failed node causes its successors to be
// skipped. The returned error wraps the first node failure. The Execution
// is returned even when err is non-nil, unless compilation failed.
func (r *Runner) Run(ctx context.Context, wf *Workflow) (*Execution, error) {
	plan, err := wf.Compile()
	if err != nil {
		return nil, err
	}
	return r.RunPlan(ctx, plan)
}

// RunPlan executes an already compiled plan.
func (r *Runner) RunPlan(ctx context.Context, plan *Plan) (*Execution, error) {
	exec := newExecution(plan.workflow.name)
	log := logger.WithExecution(r.logger, exec.Workflow, exec.ID)

	var sem *semaphore.Weighted
	if r.maxParallel > 0 {
		sem = semaphore.NewWeighted(int64(r.maxParallel))
	}

	log.Info("Workflow started", zap.Int("nodes", len(plan.order)))
	out, err := newPlanRun(ctx, r, plan, exec, "", sem, log).run()
	exec.FinishedAt = time.Now()
	exec.Output = out
	exec.Err = err

	if err != nil {
		log.Error("Workflow failed", zap.Error(err), zap.Duration("duration", exec.FinishedAt.Sub(exec.StartedAt)))
	} else {
		log.Info("Workflow succeeded", zap.Duration("duration", exec.FinishedAt.Sub(exec.StartedAt)))
	}

	if r.recorder != nil {
		if recErr := r.recorder.Record(context.WithoutCancel(ctx), exec); recErr != nil {
			log.Warn("Failed to record execution", zap.Error(recErr))
		}
	}

	return exec, err
}
