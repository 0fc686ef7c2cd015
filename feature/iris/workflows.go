package iris

import (
	"context"

	"chainflow/core/workflow"
)

// Workflow and task names.
const (
	CreateBucketTaskName       = "create_bucket"
	WriteTaskName              = "write"
	ReadTaskName               = "read"
	WriteSubWorkflowName       = "write_sub_workflow"
	ReadSubWorkflowName        = "read_sub_workflow"
	ChainTasksWorkflowName     = "chain_tasks_wf"
	ChainWorkflowsWorkflowName = "chain_workflows_wf"
)

// cacheVersion is bumped whenever the create or write side effects change.
const cacheVersion = "1.0"

// Entities bundles the example tasks and workflows.
type Entities struct {
	CreateBucket *workflow.Task
	Write        *workflow.Task
	Read         *workflow.Task

	WriteSub       *workflow.Workflow
	ReadSub        *workflow.Workflow
	ChainTasks     *workflow.Workflow
	ChainWorkflows *workflow.Workflow
}

// NewEntities declares the tasks over t and composes the workflows.
func NewEntities(t *Tasks) *Entities {
	e := &Entities{
		CreateBucket: workflow.NewTask(CreateBucketTaskName, func(ctx context.Context, _ workflow.Inputs) (any, error) {
			return nil, t.CreateBucket(ctx)
		}, workflow.WithCache(cacheVersion)),
		Write: workflow.NewTask(WriteTaskName, func(ctx context.Context, _ workflow.Inputs) (any, error) {
			return nil, t.Write(ctx)
		}, workflow.WithCache(cacheVersion)),
		Read: workflow.NewTask(ReadTaskName, func(ctx context.Context, _ workflow.Inputs) (any, error) {
			return t.Read(ctx)
		}),
	}

	e.ChainTasks = chainTasks(e)
	e.WriteSub = writeSubWorkflow(e)
	e.ReadSub = readSubWorkflow(e)
	e.ChainWorkflows = chainWorkflows(e)
	return e
}

// Register adds every task and workflow to reg.
func (e *Entities) Register(reg *workflow.Registry) {
	reg.RegisterTask(e.CreateBucket, e.Write, e.Read)
	reg.RegisterWorkflow(e.WriteSub, e.ReadSub, e.ChainTasks, e.ChainWorkflows)
}

// chainTasks orders create_bucket -> write -> read. None of them pass data
// to each other, so the order is declared explicitly.
func chainTasks(e *Entities) *workflow.Workflow {
	wf := workflow.New(ChainTasksWorkflowName)
	createBucket := wf.Call(e.CreateBucket)
	write := wf.Call(e.Write)
	read := wf.Call(e.Read)

	createBucket.Then(write)
	write.Then(read)

	wf.Output(read)
	return wf
}

func writeSubWorkflow(e *Entities) *workflow.Workflow {
	wf := workflow.New(WriteSubWorkflowName)
	wf.Call(e.Write)
	return wf
}

func readSubWorkflow(e *Entities) *workflow.Workflow {
	wf := workflow.New(ReadSubWorkflowName)
	wf.Output(wf.Call(e.Read))
	return wf
}

// chainWorkflows is chainTasks with the write and read steps wrapped in
// sub-workflows.
func chainWorkflows(e *Entities) *workflow.Workflow {
	wf := workflow.New(ChainWorkflowsWorkflowName)
	createBucket := wf.Call(e.CreateBucket)
	writeSub := wf.Call(e.WriteSub)
	readSub := wf.Call(e.ReadSub)

	createBucket.Then(writeSub)
	writeSub.Then(readSub)

	wf.Output(readSub)
	return wf
}
