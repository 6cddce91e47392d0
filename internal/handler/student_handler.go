package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches roster routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Patch("/:id/class", h.updateClass)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	req := dto.StudentListRequest{
		ClassName: optionalQuery(c, "class_name"),
	}

	students, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students", students)
}

func (h *StudentHandler) updateClass(c *fiber.Ctx) error {
	var payload dto.StudentClassUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdateClass(c.Context(), activityActorFromContext(c), c.Params("id"), payload); err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("student_id", c.Params("id")).Msg("failed to update student class")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update student class")
		}
	}

	return utils.SendSuccess(c, "student class updated", nil)
}
