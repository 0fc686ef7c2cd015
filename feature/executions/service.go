package executions

import (
	"context"

	"chainflow/core/history"
	"chainflow/core/workflow"
)

const (
	// DefaultLimit is used when no limit is requested.
	DefaultLimit = 20
	// MaxLimit caps a single listing.
	MaxLimit = 100
)

// Service reads stored executions.
type Service struct {
	store history.Store
}

// NewService creates a new executions service.
func NewService(store history.Store) *Service {
	return &Service{store: store}
}

// ClampLimit maps a requested limit into [1, MaxLimit].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// List returns the newest executions, optionally filtered by workflow name.
func (s *Service) List(ctx context.Context, workflowName string, limit int) ([]workflow.Summary, error) {
	recs, err := s.store.List(ctx, workflowName, ClampLimit(limit))
	if err != nil {
		return nil, err
	}

	out := make([]workflow.Summary, 0, len(recs))
	for _, rec := range recs {
		summary, err := rec.Summary()
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// Get returns a single execution.
func (s *Service) Get(ctx context.Context, id string) (workflow.Summary, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return workflow.Summary{}, err
	}
	return rec.Summary()
}
