package workflow

import (
	"errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Plan is a compiled, validated workflow: its dependency graph, a stable
// topological order and the compiled plans of its sub-workflows.
type Plan struct {
	workflow     *Workflow
	graph        graph.Graph[string, string]
	order        []string
	predecessors map[string][]string
	successors   map[string][]string
	subPlans     map[string]*Plan
}

// Compile validates the workflow and builds its execution plan.
func (w *Workflow) Compile() (*Plan, error) {
	return w.compile(make(map[*Workflow]struct{}))
}

func (w *Workflow) compile(stack map[*Workflow]struct{}) (*Plan, error) {
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("workflow %s: %w", w.name, err)
	}
	if _, ok := stack[w]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRecursiveWorkflow, w.name)
	}
	stack[w] = struct{}{}
	defer delete(stack, w)

	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	position := make(map[string]int, len(w.nodes))
	plan := &Plan{
		workflow:     w,
		graph:        g,
		predecessors: make(map[string][]string, len(w.nodes)),
		successors:   make(map[string][]string, len(w.nodes)),
		subPlans:     make(map[string]*Plan),
	}

	for i, n := range w.nodes {
		var err error
		if sub, ok := n.entity.(*Workflow); ok {
			err = g.AddVertex(n.id, graph.VertexAttribute("shape", "box"), graph.VertexAttribute("xlabel", sub.name))
		} else {
			err = g.AddVertex(n.id)
		}
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("workflow %s: %w: %s", w.name, ErrDuplicateNode, n.id)
		}
		if err != nil {
			return nil, fmt.Errorf("workflow %s: add node %s: %w", w.name, n.id, err)
		}
		position[n.id] = i
	}

	for _, n := range w.nodes {
		for _, up := range n.predecessors() {
			err := g.AddEdge(up.id, n.id)
			switch {
			case err == nil:
			case errors.Is(err, graph.ErrEdgeAlreadyExists):
				continue
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, fmt.Errorf("workflow %s: %w: %s -> %s", w.name, ErrCycle, up.id, n.id)
			default:
				return nil, fmt.Errorf("workflow %s: add edge %s -> %s: %w", w.name, up.id, n.id, err)
			}
			plan.predecessors[n.id] = append(plan.predecessors[n.id], up.id)
			plan.successors[up.id] = append(plan.successors[up.id], n.id)
		}

		if sub, ok := n.entity.(*Workflow); ok {
			subPlan, err := sub.compile(stack)
			if err != nil {
				return nil, fmt.Errorf("workflow %s: node %s: %w", w.name, n.id, err)
			}
			plan.subPlans[n.id] = subPlan
		}
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return position[a] < position[b]
	})
	if err != nil {
		return nil, fmt.Errorf("workflow %s: %w", w.name, err)
	}
	plan.order = order

	return plan, nil
}

// Workflow returns the compiled workflow.
func (p *Plan) Workflow() *Workflow { return p.workflow }

// Order returns the node ids in a stable topological order.
func (p *Plan) Order() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Predecessors returns the direct predecessors of a node.
func (p *Plan) Predecessors(id string) []string {
	return append([]string(nil), p.predecessors[id]...)
}

// Successors returns the direct successors of a node.
func (p *Plan) Successors(id string) []string {
	return append([]string(nil), p.successors[id]...)
}

// SubPlan returns the compiled plan of a sub-workflow node.
func (p *Plan) SubPlan(id string) (*Plan, bool) {
	sp, ok := p.subPlans[id]
	return sp, ok
}

// Leaves returns the ids of every task node reachable through this plan,
// with sub-workflow nodes expanded recursively and ids joined by "/".
func (p *Plan) Leaves() []string {
	var out []string
	for _, id := range p.order {
		if sp, ok := p.SubPlan(id); ok {
			for _, leaf := range sp.Leaves() {
				out = append(out, id+"/"+leaf)
			}
			continue
		}
		out = append(out, id)
	}
	return out
}

// DOT renders the plan's dependency graph in Graphviz DOT format.
func (p *Plan) DOT(w io.Writer) error {
	return draw.DOT(p.graph, w, draw.GraphAttribute("label", p.workflow.name))
}

// DOT compiles the workflow and renders its dependency graph.
func (w *Workflow) DOT(out io.Writer) error {
	plan, err := w.Compile()
	if err != nil {
		return err
	}
	return plan.DOT(out)
}
