package workflow

import "fmt"

// Promise is the handle to a node scheduled in a workflow but not yet
// executed. Promises are the operands of the chaining operator.
type Promise struct {
	id       string
	wf       *Workflow
	entity   Runnable
	bindings []Binding
	upstream []*Promise
}

// ID returns the node id, unique within the owning workflow.
func (p *Promise) ID() string { return p.id }

// Entity returns the task or workflow this node invokes.
func (p *Promise) Entity() Runnable { return p.entity }

// Then declares that p must complete before next starts, without passing any
// data between them. It returns next so chains read left to right:
//
//	create.Then(write).Then(read)
//
// records two edges, create -> write and write -> read.
func (p *Promise) Then(next *Promise) *Promise {
	switch {
	case p == nil && next == nil:
		return nil
	case p == nil:
		next.wf.addErr(fmt.Errorf("%w: nil predecessor of %s", ErrForeignPromise, next.id))
		return next
	case next == nil:
		p.wf.addErr(fmt.Errorf("%w: nil successor of %s", ErrForeignPromise, p.id))
		return nil
	case p.wf != next.wf:
		p.wf.addErr(fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrForeignPromise, p.id, p.wf.name, next.id, next.wf.name))
		return next
	case p == next:
		p.wf.addErr(fmt.Errorf("%w: %s -> %s", ErrCycle, p.id, p.id))
		return next
	}
	next.upstream = append(next.upstream, p)
	return next
}

// Chain records consecutive ordering edges ps[0] -> ps[1] -> ... -> ps[n-1].
// Each adjacent pair becomes exactly one edge.
func Chain(ps ...*Promise) {
	for i := 1; i < len(ps); i++ {
		ps[i-1].Then(ps[i])
	}
}

// predecessors returns every node that must finish before p,
// from ordering edges and data bindings, without duplicates.
func (p *Promise) predecessors() []*Promise {
	seen := make(map[*Promise]struct{}, len(p.upstream)+len(p.bindings))
	out := make([]*Promise, 0, len(p.upstream)+len(p.bindings))
	add := func(up *Promise) {
		if _, ok := seen[up]; ok {
			return
		}
		seen[up] = struct{}{}
		out = append(out, up)
	}
	for _, up := range p.upstream {
		add(up)
	}
	for _, b := range p.bindings {
		add(b.promise)
	}
	return out
}

// Binding passes the output of an upstream node to a task under a name.
// A binding is also an ordering edge.
type Binding struct {
	name    string
	promise *Promise
}

// Bind creates a Binding of p's output under name.
func Bind(name string, p *Promise) Binding {
	return Binding{name: name, promise: p}
}
