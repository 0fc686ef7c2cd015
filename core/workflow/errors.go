package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrForeignPromise is recorded when promises from different workflows
	// are chained or bound together.
	ErrForeignPromise = errors.New("promise belongs to another workflow")
	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrCycle is returned when the declared edges form a cycle.
	ErrCycle = errors.New("dependency graph contains a cycle")
	// ErrRecursiveWorkflow is returned when a workflow calls itself, directly
	// or through a sub-workflow.
	ErrRecursiveWorkflow = errors.New("workflow calls itself")
	// ErrUpstreamFailed marks nodes skipped because a predecessor failed.
	ErrUpstreamFailed = errors.New("upstream node failed")
	// ErrUnknownEntity is returned when a definition references a task or
	// workflow that is not registered.
	ErrUnknownEntity = errors.New("unknown task or workflow")
	// ErrInvalidDefinition is returned for malformed workflow definitions.
	ErrInvalidDefinition = errors.New("invalid workflow definition")
)

// NodeError wraps the error returned by a node.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
