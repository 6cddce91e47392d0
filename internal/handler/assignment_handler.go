package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// AssignmentHandler exposes task assignment endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment routes to the router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id/results", h.results)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	taskID, err := parseQueryUint(c, "task_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task_id")
	}

	req := dto.AssignmentListRequest{
		ClassName: optionalQuery(c, "class_name"),
		TaskID:    taskID,
	}

	assignments, err := h.service.List(c.Context(), userIDFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list assignments")
	}

	return utils.SendSuccess(c, "assignments", assignments)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.Create(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "task not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("task_id", payload.TaskID).Msg("failed to create assignment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create assignment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *AssignmentHandler) results(c *fiber.Ctx) error {
	results, err := h.service.Results(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("assignment_id", c.Params("id")).Msg("failed to load assignment results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load assignment results")
	}

	return utils.SendSuccess(c, "assignment results", results)
}
