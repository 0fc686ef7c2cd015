package workflow

import (
	"errors"
	"fmt"
)

// Workflow is a named composition of nodes. It is itself Runnable, so a
// workflow can be called from another workflow as a sub-workflow node; such a
// node completes only once every node inside the sub-workflow has completed.
type Workflow struct {
	name   string
	nodes  []*Promise
	byID   map[string]*Promise
	calls  map[string]int
	output *Promise
	errs   []error
}

// New creates an empty workflow.
func New(name string) *Workflow {
	return &Workflow{
		name:  name,
		byID:  make(map[string]*Promise),
		calls: make(map[string]int),
	}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

func (w *Workflow) runnable() {}

// Call schedules entity as a new node and returns its promise. The node id
// is the entity name, suffixed with a counter when the entity is called more
// than once.
func (w *Workflow) Call(entity Runnable, bindings ...Binding) *Promise {
	name := entity.Name()
	n := w.calls[name]
	w.calls[name] = n + 1
	id := name
	if n > 0 {
		id = fmt.Sprintf("%s-%d", name, n)
	}
	for {
		if _, taken := w.byID[id]; !taken {
			break
		}
		n++
		id = fmt.Sprintf("%s-%d", name, n)
	}
	return w.CallAs(id, entity, bindings...)
}

// CallAs schedules entity under an explicit node id.
func (w *Workflow) CallAs(id string, entity Runnable, bindings ...Binding) *Promise {
	p := &Promise{id: id, wf: w, entity: entity}
	if _, isSub := entity.(*Workflow); isSub && len(bindings) > 0 {
		w.addErr(fmt.Errorf("%w: sub-workflow node %s takes no inputs", ErrInvalidDefinition, id))
		bindings = nil
	}
	for _, b := range bindings {
		if b.promise == nil || b.promise.wf != w {
			w.addErr(fmt.Errorf("%w: binding %q of %s", ErrForeignPromise, b.name, id))
			continue
		}
		p.bindings = append(p.bindings, b)
	}
	if _, exists := w.byID[id]; exists {
		w.addErr(fmt.Errorf("%w: %s", ErrDuplicateNode, id))
		return p
	}
	w.byID[id] = p
	w.nodes = append(w.nodes, p)
	return p
}

// Output declares p as the workflow output.
func (w *Workflow) Output(p *Promise) {
	if p == nil || p.wf != w {
		w.addErr(fmt.Errorf("%w: output of %s", ErrForeignPromise, w.name))
		return
	}
	w.output = p
}

// Node returns the node with the given id.
func (w *Workflow) Node(id string) (*Promise, bool) {
	p, ok := w.byID[id]
	return p, ok
}

// Err returns the definition errors recorded so far.
func (w *Workflow) Err() error {
	return errors.Join(w.errs...)
}

func (w *Workflow) addErr(err error) {
	w.errs = append(w.errs, err)
}
