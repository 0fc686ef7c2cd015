package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// planRun holds the mutable state of one execution of a Plan. The Plan
// itself is never modified, so it can be run any number of times.
type planRun struct {
	runner *Runner
	plan   *Plan
	exec   *Execution
	prefix string
	sem    *semaphore.Weighted
	logger *zap.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	remaining map[string]int
	outputs   map[string]any
	failed    []string
	err       error
	halted    bool
}

func newPlanRun(ctx context.Context, r *Runner, plan *Plan, exec *Execution, prefix string, sem *semaphore.Weighted, logger *zap.Logger) *planRun {
	iCtx, cancel := context.WithCancel(ctx)
	return &planRun{
		runner:    r,
		plan:      plan,
		exec:      exec,
		prefix:    prefix,
		sem:       sem,
		logger:    logger,
		parent:    ctx,
		ctx:       iCtx,
		cancel:    cancel,
		remaining: make(map[string]int, len(plan.order)),
		outputs:   make(map[string]any, len(plan.order)),
	}
}

func (pr *planRun) path(id string) string {
	return pr.prefix + id
}

func (pr *planRun) run() (any, error) {
	defer pr.cancel()

	for _, id := range pr.plan.order {
		node, _ := pr.plan.workflow.Node(id)
		pr.remaining[id] = len(pr.plan.predecessors[id])
		pr.exec.update(pr.path(id), func(r *NodeResult) {
			r.Entity = node.entity.Name()
		})
	}

	// Nodes without predecessors are free to run.
	pr.mu.Lock()
	for _, id := range pr.plan.order {
		if pr.remaining[id] == 0 {
			pr.dispatch(id)
		}
	}
	pr.mu.Unlock()

	pr.wg.Wait()

	pr.mu.Lock()
	defer pr.mu.Unlock()

	if pr.err == nil {
		if err := pr.parent.Err(); err != nil && pr.incomplete() {
			pr.err = err
		}
	}
	pr.skipUnreached()

	if pr.err != nil {
		return nil, pr.err
	}
	if out := pr.plan.workflow.output; out != nil {
		return pr.outputs[out.id], nil
	}
	return nil, nil
}

// dispatch starts a node. Callers hold pr.mu.
func (pr *planRun) dispatch(id string) {
	if pr.halted || pr.ctx.Err() != nil {
		return
	}
	pr.wg.Add(1)
	go pr.runNode(id)
}

func (pr *planRun) runNode(id string) {
	defer pr.wg.Done()

	node, _ := pr.plan.workflow.Node(id)
	out, err := pr.execute(node)

	pr.mu.Lock()
	defer pr.mu.Unlock()

	if err != nil {
		// Successors of a failed or aborted node are never dispatched.
		if !pr.aborted(err) {
			pr.fail(id, err)
		}
		return
	}

	pr.outputs[id] = out
	for _, succ := range pr.plan.successors[id] {
		pr.remaining[succ]--
		if pr.remaining[succ] == 0 {
			pr.dispatch(succ)
		}
	}
}

// fail records a node failure. Callers hold pr.mu.
func (pr *planRun) fail(id string, err error) {
	pr.failed = append(pr.failed, id)
	if pr.err == nil {
		pr.err = &NodeError{Node: id, Err: err}
	}
	if pr.runner.policy == FailImmediately && !pr.halted {
		pr.halted = true
		pr.cancel()
	}
}

// aborted reports whether err comes from this run's context ending, either
// through a failure elsewhere or through the caller.
func (pr *planRun) aborted(err error) bool {
	if err == nil || pr.ctx.Err() == nil {
		return false
	}
	return errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) || errors.Is(err, pr.ctx.Err())
}

// incomplete reports whether some node has not finished. Callers hold pr.mu.
func (pr *planRun) incomplete() bool {
	for _, id := range pr.plan.order {
		r, ok := pr.exec.Node(pr.path(id))
		if !ok || !r.State.Done() {
			return true
		}
	}
	return false
}

// skipUnreached marks every node that never started as skipped. Callers hold pr.mu.
func (pr *planRun) skipUnreached() {
	downstream := make(map[string]struct{})
	queue := append([]string(nil), pr.failed...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, succ := range pr.plan.successors[id] {
			if _, seen := downstream[succ]; seen {
				continue
			}
			downstream[succ] = struct{}{}
			queue = append(queue, succ)
		}
	}

	for _, id := range pr.plan.order {
		reason := ErrAborted
		if _, ok := downstream[id]; ok {
			reason = ErrUpstreamFailed
		} else if err := pr.parent.Err(); err != nil {
			reason = err
		}
		path := pr.path(id)
		pr.exec.update(path, func(r *NodeResult) {
			if r.State == StatePending {
				r.State = StateSkipped
				r.Err = reason
			}
		})
	}
}

func (pr *planRun) inputs(node *Promise) Inputs {
	if len(node.bindings) == 0 {
		return Inputs{}
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()
	values := make(map[string]any, len(node.bindings))
	for _, b := range node.bindings {
		values[b.name] = pr.outputs[b.promise.id]
	}
	return Inputs{values: values}
}

func (pr *planRun) execute(node *Promise) (any, error) {
	switch entity := node.entity.(type) {
	case *Task:
		return pr.executeTask(node, entity)
	case *Workflow:
		return pr.executeSubWorkflow(node)
	default:
		err := fmt.Errorf("unsupported entity %T", node.entity)
		pr.exec.update(pr.path(node.id), func(r *NodeResult) {
			r.State = StateFailed
			r.Err = err
		})
		return nil, err
	}
}

func (pr *planRun) executeTask(node *Promise, t *Task) (any, error) {
	path := pr.path(node.id)
	in := pr.inputs(node)

	if pr.sem != nil {
		if err := pr.sem.Acquire(pr.ctx, 1); err != nil {
			pr.exec.update(path, func(r *NodeResult) {
				r.State = StateSkipped
				r.Err = err
			})
			return nil, err
		}
		defer pr.sem.Release(1)
	}

	started := time.Now()
	pr.exec.update(path, func(r *NodeResult) {
		r.State = StateRunning
		r.StartedAt = started
	})
	pr.logger.Debug("Node started", zap.String("node", path))

	attempts := 0
	call := func() (any, error) {
		return pr.attempt(t, in, path, &attempts)
	}

	var (
		out    any
		err    error
		cached bool
	)
	if t.CacheVersion() != "" && pr.runner.cache != nil {
		if key, ok := CacheKey(t, in); ok {
			out, cached, err = pr.runner.cache.Do(pr.ctx, key, call)
		} else {
			pr.logger.Debug("Task inputs are not hashable, skipping cache", zap.String("node", path))
			out, err = call()
		}
	} else {
		out, err = call()
	}

	state := StateSucceeded
	switch {
	case pr.aborted(err):
		state = StateSkipped
		err = fmt.Errorf("%w: %w", ErrAborted, err)
	case err != nil:
		state = StateFailed
	case cached:
		state = StateCached
	}

	finished := time.Now()
	pr.exec.update(path, func(r *NodeResult) {
		r.State = state
		r.Attempts = attempts
		r.FinishedAt = finished
		r.Err = err
	})

	fields := []zap.Field{zap.String("node", path), zap.String("state", string(state)), zap.Duration("duration", finished.Sub(started))}
	if err != nil {
		pr.logger.Warn("Node did not succeed", append(fields, zap.Error(err))...)
	} else {
		pr.logger.Debug("Node finished", fields...)
	}
	return out, err
}

// attempt runs t up to 1+retries times.
func (pr *planRun) attempt(t *Task, in Inputs, path string, attempts *int) (any, error) {
	var lastErr error
	retries := t.Retries()
	for i := 0; i <= retries; i++ {
		*attempts = i + 1

		actx, cancel := pr.ctx, context.CancelFunc(func() {})
		if t.timeout > 0 {
			actx, cancel = context.WithTimeout(pr.ctx, t.timeout)
		}
		out, err := callTask(actx, t, in)
		cancel()
		if err == nil {
			return out, nil
		}

		lastErr = err
		if pr.ctx.Err() != nil {
			break
		}
		if i < retries {
			pr.logger.Warn("Task attempt failed, retrying",
				zap.String("node", path),
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
		}
	}
	return nil, lastErr
}

func callTask(ctx context.Context, t *Task, in Inputs) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task %s panicked: %v", t.name, rec)
		}
	}()
	return t.fn(ctx, in)
}

func (pr *planRun) executeSubWorkflow(node *Promise) (any, error) {
	path := pr.path(node.id)
	sub, _ := pr.plan.SubPlan(node.id)

	started := time.Now()
	pr.exec.update(path, func(r *NodeResult) {
		r.State = StateRunning
		r.StartedAt = started
		r.Attempts = 1
	})
	pr.logger.Debug("Sub-workflow started", zap.String("node", path))

	// Inner tasks share the execution's parallelism bound; the sub-workflow
	// node itself does not hold a slot.
	out, err := newPlanRun(pr.ctx, pr.runner, sub, pr.exec, path+"/", pr.sem, pr.logger).run()

	state := StateSucceeded
	switch {
	case pr.aborted(err):
		state = StateSkipped
	case err != nil:
		state = StateFailed
	}
	pr.exec.update(path, func(r *NodeResult) {
		r.State = state
		r.FinishedAt = time.Now()
		r.Err = err
	})
	return out, err
}
