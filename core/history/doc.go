// Package history persists workflow executions.
//
// Every execution finished by a workflow.Runner configured with a Recorder
// is stored as an ExecutionRecord in the workflow_executions table. Node
// states are kept as a JSON document so the record shape does not depend on
// the workflow.
//
// The gorm Store works with any dialect core/database can open. Without a
// database the in-memory MemoryStore is used, which forgets everything when
// the process exits.
package history
