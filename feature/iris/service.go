package iris

import (
	"context"
	"errors"
	"fmt"
	"io"

	"chainflow/core/storage"
	"chainflow/core/workflow"

	"go.uber.org/zap"
)

// ErrUnknownWorkflow is returned for workflow names that are not registered.
var ErrUnknownWorkflow = errors.New("unknown workflow")

// DefaultWorkflows are run when no workflow is named.
var DefaultWorkflows = []string{ChainTasksWorkflowName, ChainWorkflowsWorkflowName}

// Service runs the example workflows.
type Service struct {
	client   storage.Client
	tasks    *Tasks
	registry *workflow.Registry
	runner   *workflow.Runner
	logger   *zap.Logger
}

// NewService creates a new iris service and registers its workflows.
func NewService(client storage.Client, bucket string, logger *zap.Logger, runner *workflow.Runner) *Service {
	tasks := NewTasks(client, bucket, logger)
	entities := NewEntities(tasks)
	registry := workflow.NewRegistry()
	entities.Register(registry)

	return &Service{
		client:   client,
		tasks:    tasks,
		registry: registry,
		runner:   runner,
		logger:   logger,
	}
}

// LoadDefinitions builds and registers the YAML workflow definitions in dir.
// They may reference the example tasks and workflows by name.
func (s *Service) LoadDefinitions(dir string) error {
	if dir == "" {
		return nil
	}
	defs, err := workflow.LoadDefinitionDir(dir)
	if err != nil {
		return err
	}
	if err := s.registry.BuildAndRegister(defs...); err != nil {
		return err
	}
	s.logger.Info("Loaded workflow definitions", zap.String("dir", dir), zap.Int("count", len(defs)))
	return nil
}

// Workflows returns the names of all runnable workflows.
func (s *Service) Workflows() []string {
	return s.registry.Workflows()
}

func (s *Service) lookup(name string) (*workflow.Workflow, error) {
	wf, ok := s.registry.Workflow(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorkflow, name)
	}
	return wf, nil
}

// Run executes the named workflow.
func (s *Service) Run(ctx context.Context, name string) (*workflow.Execution, error) {
	wf, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return s.runner.Run(ctx, wf)
}

// Graph writes the DOT graph of the named workflow to w.
func (s *Service) Graph(name string, w io.Writer) error {
	wf, err := s.lookup(name)
	if err != nil {
		return err
	}
	return wf.DOT(w)
}

// Ping checks that the object store answers.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.tasks.Bucket()); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	return nil
}
