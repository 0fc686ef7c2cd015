package history

import (
	"context"

	"chainflow/core/workflow"
)

// Recorder stores every finished execution. It implements workflow.Recorder.
type Recorder struct {
	store Store
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record saves exec.
func (r *Recorder) Record(ctx context.Context, exec *workflow.Execution) error {
	rec, err := FromExecution(exec)
	if err != nil {
		return err
	}
	return r.store.Save(ctx, rec)
}
