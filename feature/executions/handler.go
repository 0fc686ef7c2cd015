package executions

import (
	"errors"

	"chainflow/core/history"
	"chainflow/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for stored executions.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the execution routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/executions")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
}

// HandleList lists recent executions.
// @Summary List Executions
// @Tags executions
// @Produce json
// @Param workflow query string false "Filter by workflow name"
// @Param limit query int false "Maximum number of executions (default 20, max 100)"
// @Success 200 {array} workflow.Summary
// @Router /executions [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	summaries, err := h.service.List(c.UserContext(), c.Query("workflow"), c.QueryInt("limit", DefaultLimit))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list executions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summaries)
}

// HandleGet returns one execution.
// @Summary Get Execution
// @Tags executions
// @Produce json
// @Param id path string true "Execution id"
// @Success 200 {object} workflow.Summary
// @Failure 404 {object} map[string]string
// @Router /executions/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	summary, err := h.service.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, history.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to load execution", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}
