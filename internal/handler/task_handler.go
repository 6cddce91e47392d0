package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// TaskHandler exposes role-play task CRUD endpoints.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches task routes to the router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tasks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list tasks")
	}

	return utils.SendSuccess(c, "tasks", tasks)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	task, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "task not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("task_id", id).Msg("failed to load task")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load task")
	}

	return utils.SendSuccess(c, "task detail", task)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Create(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create task")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create task")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	task, err := h.service.Update(c.Context(), activityActorFromContext(c), id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "task not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("task_id", id).Msg("failed to update task")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update task")
		}
	}

	return utils.SendSuccess(c, "task updated", task)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Delete(c.Context(), activityActorFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "task not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("task_id", id).Msg("failed to delete task")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete task")
	}

	return utils.SendSuccess(c, "task deleted", nil)
}
