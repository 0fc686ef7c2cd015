package cmd

import (
	"errors"
	"fmt"

	"chainflow/core/config"
	"chainflow/core/database"
	"chainflow/core/history"
	"chainflow/core/logger"
	"chainflow/core/workflow"
	"chainflow/feature/iris"

	"go.uber.org/zap"
)

// runtime bundles the dependencies shared by the commands.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	history history.Store
	iris    *iris.Service
}

// bootstrap loads configuration and wires storage, history and the runner.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	// The history database is optional; without it executions are kept in memory.
	store := history.NewStore(nil)
	if db, err := database.Connect(cfg.Database); err != nil {
		if !errors.Is(err, database.ErrDisabled) {
			logg.Warn("Optional database connection failed, keeping history in memory", zap.Error(err))
		}
	} else if err := history.Migrate(db); err != nil {
		logg.Warn("Execution history unavailable, keeping history in memory", zap.Error(err))
	} else {
		store = history.NewStore(db)
		logg.Debug("Connected to history database", zap.String("driver", cfg.Database.Driver))
	}

	client, err := iris.NewStorageClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	runner := workflow.NewRunnerFromConfig(cfg.Workflow, logg, workflow.WithRecorder(history.NewRecorder(store)))
	svc := iris.NewService(client, cfg.Storage.Bucket, logg, runner)
	if err := svc.LoadDefinitions(cfg.Workflow.DefinitionsDir); err != nil {
		return nil, fmt.Errorf("failed to load workflow definitions: %w", err)
	}

	return &runtime{cfg: cfg, logger: logg, history: store, iris: svc}, nil
}
