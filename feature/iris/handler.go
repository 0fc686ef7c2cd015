package iris

import (
	"bytes"
	"errors"

	"chainflow/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the example workflows.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the workflow routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/workflows")
	group.Get("/", h.HandleList)
	group.Post("/:name/run", h.HandleRun)
	group.Get("/:name/graph", h.HandleGraph)
	app.Get("/health", h.HandleHealth)
}

// HandleList lists the runnable workflows.
// @Summary List Workflows
// @Tags workflows
// @Produce json
// @Success 200 {object} map[string][]string "Workflow names"
// @Router /workflows [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"workflows": h.service.Workflows()})
}

// HandleRun runs a workflow and returns its execution summary.
// @Summary Run Workflow
// @Description Runs the named workflow to completion. Failed executions are returned with status 500 and the node states.
// @Tags workflows
// @Produce json
// @Param name path string true "Workflow name (e.g. 'chain_tasks_wf')"
// @Success 200 {object} workflow.Summary "Execution"
// @Failure 404 {object} map[string]string "Unknown workflow"
// @Failure 500 {object} workflow.Summary "Failed execution"
// @Router /workflows/{name}/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	name := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	exec, err := h.service.Run(c.UserContext(), name)
	if errors.Is(err, ErrUnknownWorkflow) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if exec == nil {
		l.Error("Workflow could not start", zap.String("workflow", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Workflow failed", zap.String("workflow", name), zap.String("execution_id", exec.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(exec.Summary())
	}

	l.Info("Workflow succeeded", zap.String("workflow", name), zap.String("execution_id", exec.ID))
	return c.JSON(exec.Summary())
}

// HandleGraph renders the workflow dependency graph.
// @Summary Workflow Graph
// @Tags workflows
// @Produce plain
// @Param name path string true "Workflow name"
// @Success 200 {string} string "Graphviz DOT"
// @Router /workflows/{name}/graph [get]
func (h *Handler) HandleGraph(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.Graph(c.Params("name"), &buf); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrUnknownWorkflow) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/vnd.graphviz")
	return c.Send(buf.Bytes())
}

// HandleHealth reports whether the object store is reachable.
// @Summary Health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if err := h.service.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
