// Package workflow is a small in-process orchestration engine. It runs the
// nodes of a workflow concurrently where it can and in order where the
// workflow author says it must.
//
// A workflow is built by calling tasks and other workflows on it. Each call
// returns a Promise: a node that is scheduled but has not run yet. Order
// between nodes comes from two places:
//
//   - data bindings (Bind), when a task consumes another node's output
//   - the chaining operator (Then, Chain), when a node has to wait for
//     another node's side effects without consuming anything from it
//
// Chaining records exactly one edge per call and nothing is inferred: a.Then(b)
// and b.Then(c) are two edges. A sub-workflow node is chained like any other
// node, and it completes only when every node inside it has completed.
//
//	wf := workflow.New("chain_tasks_wf")
//	create := wf.Call(createBucket)
//	write := wf.Call(write)
//	read := wf.Call(read)
//	create.Then(write).Then(read)
//	wf.Output(read)
//
//	exec, err := workflow.NewRunner(logger).Run(ctx, wf)
//
// When a node fails, none of its successors run. Under FailImmediately the
// rest of the execution is cancelled as well; under
// FailAfterExecutableNodesComplete independent branches keep going.
//
// Tasks may be cached (WithCache), retried (WithRetries) and bounded in time
// (WithTimeout). Workflows can also be declared in YAML and built through a
// Registry.
package workflow
