package iris

import (
	"chainflow/core/storage"
	"chainflow/core/workflow"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new iris feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, runner *workflow.Runner) *Feature {
	svc := NewService(client, bucket, logger, runner)
	return NewFeatureFromService(svc)
}

// NewFeatureFromService wraps an existing service.
func NewFeatureFromService(svc *Service) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "iris"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
