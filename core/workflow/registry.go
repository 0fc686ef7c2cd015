package workflow

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps names to tasks and workflows so that workflows can be
// looked up by name and built from definitions.
type Registry struct {
	mu        sync.RWMutex
	tasks     map[string]*Task
	workflows map[string]*Workflow
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks:     make(map[string]*Task),
		workflows: make(map[string]*Workflow),
	}
}

// RegisterTask adds tasks, replacing any with the same name.
func (r *Registry) RegisterTask(tasks ...*Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tasks {
		r.tasks[t.Name()] = t
	}
}

// RegisterWorkflow adds workflows, replacing any with the same name.
func (r *Registry) RegisterWorkflow(workflows ...*Workflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range workflows {
		r.workflows[w.Name()] = w
	}
}

// Task returns a registered task.
func (r *Registry) Task(name string) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[name]
	return t, ok
}

// Workflow returns a registered workflow.
func (r *Registry) Workflow(name string) (*Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workflows[name]
	return w, ok
}

// Workflows returns the sorted names of all registered workflows.
func (r *Registry) Workflows() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build turns a definition into a workflow. Every "after" entry becomes an
// ordering edge through Then. The built workflow is not registered.
func (r *Registry) Build(def Definition) (*Workflow, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	wf := New(def.Name)
	promises := make(map[string]*Promise, len(def.Nodes))
	for _, n := range def.Nodes {
		var (
			entity Runnable
			found  bool
		)
		kind := "task"
		if n.Task != "" {
			entity, found = r.Task(n.Task)
		} else {
			kind = "workflow"
			entity, found = r.Workflow(n.Workflow)
		}
		if !found {
			return nil, fmt.Errorf("%w: %s %s (workflow %s node %s)", ErrUnknownEntity, kind, n.Entity(), def.Name, n.ID)
		}
		promises[n.ID] = wf.CallAs(n.ID, entity)
	}

	for _, n := range def.Nodes {
		for _, dep := range n.After {
			promises[dep].Then(promises[n.ID])
		}
	}

	if def.Output != "" {
		wf.Output(promises[def.Output])
	}

	if err := wf.Err(); err != nil {
		return nil, err
	}
	return wf, nil
}

// BuildAndRegister builds each definition and registers the result, so
// later definitions can call earlier ones as sub-workflows.
func (r *Registry) BuildAndRegister(defs ...Definition) error {
	for _, def := range defs {
		wf, err := r.Build(def)
		if err != nil {
			return err
		}
		if _, err := wf.Compile(); err != nil {
			return err
		}
		r.RegisterWorkflow(wf)
	}
	return nil
}
