package history

import (
	"encoding/json"
	"fmt"
	"time"

	"chainflow/core/workflow"
)

// ExecutionRecord is the stored form of a workflow execution.
type ExecutionRecord struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	Workflow   string    `gorm:"column:workflow;size:128;index"`
	Status     string    `gorm:"column:status;size:16"`
	Error      string    `gorm:"column:error;type:text"`
	Nodes      string    `gorm:"column:nodes;type:text"`
	Output     string    `gorm:"column:output;type:text"`
	StartedAt  time.Time `gorm:"column:started_at;index"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name used by ExecutionRecord to `workflow_executions`
func (ExecutionRecord) TableName() string {
	return "workflow_executions"
}

// FromExecution converts a finished execution into a record. An output
// that cannot be encoded as JSON is dropped; the node states are kept.
func FromExecution(exec *workflow.Execution) (*ExecutionRecord, error) {
	summary := exec.Summary()

	nodes, err := json.Marshal(summary.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode node states: %w", err)
	}

	rec := &ExecutionRecord{
		ID:         summary.ID,
		Workflow:   summary.Workflow,
		Status:     summary.Status,
		Error:      summary.Error,
		Nodes:      string(nodes),
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
	}
	if summary.Output != nil {
		if out, err := json.Marshal(summary.Output); err == nil {
			rec.Output = string(out)
		}
	}
	return rec, nil
}

// Summary converts the record back into the serializable execution form.
func (r ExecutionRecord) Summary() (workflow.Summary, error) {
	s := workflow.Summary{
		ID:         r.ID,
		Workflow:   r.Workflow,
		Status:     r.Status,
		Error:      r.Error,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	if r.Nodes != "" {
		if err := json.Unmarshal([]byte(r.Nodes), &s.Nodes); err != nil {
			return workflow.Summary{}, fmt.Errorf("failed to decode node states of %s: %w", r.ID, err)
		}
	}
	if r.Output != "" {
		s.Output = json.RawMessage(r.Output)
	}
	return s, nil
}
