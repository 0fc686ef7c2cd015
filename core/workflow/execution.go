package workflow

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NodeState is the lifecycle state of a node within an execution.
type NodeState string

const (
	StatePending   NodeState = "pending"
	StateRunning   NodeState = "running"
	StateSucceeded NodeState = "succeeded"
	StateCached    NodeState = "cached"
	StateFailed    NodeState = "failed"
	StateSkipped   NodeState = "skipped"
)

// Done reports whether the state lets successors start.
func (s NodeState) Done() bool {
	return s == StateSucceeded || s == StateCached
}

// NodeResult is the outcome of one node of an execution. Nodes inside
// sub-workflows are reported with their path, e.g. "write_sub_workflow/write".
type NodeResult struct {
	ID         string
	Entity     string
	State      NodeState
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
	seq        int
}

// Duration returns how long the node ran.
func (r NodeResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Execution records a single run of a workflow.
type Execution struct {
	ID         string
	Workflow   string
	StartedAt  time.Time
	FinishedAt time.Time
	Output     any
	Err        error

	mu    sync.Mutex
	nodes map[string]*NodeResult
	seq   int
}

func newExecution(workflow string) *Execution {
	return &Execution{
		ID:        uuid.NewString(),
		Workflow:  workflow,
		StartedAt: time.Now(),
		nodes:     make(map[string]*NodeResult),
	}
}

// Status returns "succeeded" or "failed".
func (e *Execution) Status() string {
	if e.Err != nil {
		return string(StateFailed)
	}
	return string(StateSucceeded)
}

// Node returns the result of a node by path.
func (e *Execution) Node(id string) (NodeResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.nodes[id]
	if !ok {
		return NodeResult{}, false
	}
	return *r, true
}

// Nodes returns all node results in the order they were first registered.
func (e *Execution) Nodes() []NodeResult {
	e.mu.Lock()
	out := make([]NodeResult, 0, len(e.nodes))
	for _, r := range e.nodes {
		out = append(out, *r)
	}
	e.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (e *Execution) update(id string, fn func(r *NodeResult)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.nodes[id]
	if !ok {
		r = &NodeResult{ID: id, State: StatePending, seq: e.seq}
		e.seq++
		e.nodes[id] = r
	}
	fn(r)
}

// NodeSummary is the serializable form of a NodeResult.
type NodeSummary struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	State      NodeState `json:"state"`
	Attempts   int       `json:"attempts"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Summary is the serializable form of an Execution.
type Summary struct {
	ID         string        `json:"id"`
	Workflow   string        `json:"workflow"`
	Status     string        `json:"status"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Nodes      []NodeSummary `json:"nodes"`
	Output     any           `json:"output,omitempty"`
}

// Summary converts the execution into its serializable form.
func (e *Execution) Summary() Summary {
	s := Summary{
		ID:         e.ID,
		Workflow:   e.Workflow,
		Status:     e.Status(),
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
		Output:     e.Output,
	}
	if e.Err != nil {
		s.Error = e.Err.Error()
	}
	for _, n := range e.Nodes() {
		ns := NodeSummary{
			ID:         n.ID,
			Entity:     n.Entity,
			State:      n.State,
			Attempts:   n.Attempts,
			StartedAt:  n.StartedAt,
			FinishedAt: n.FinishedAt,
		}
		if n.Err != nil {
			ns.Error = n.Err.Error()
		}
		s.Nodes = append(s.Nodes, ns)
	}
	return s
}
