package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// GradingHandler wires the AI transcript grading endpoint.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler constructs the handler.
func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches grading endpoints to the router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Post("", h.grade)
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeTranscriptRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	submission, err := h.service.GradeTranscript(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "task not found")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		case errors.Is(err, service.ErrGraderFailure):
			requestLogger(h.logger, c).Error().Err(err).Msg("grader rejected transcript")
			return utils.SendError(c, fiber.StatusBadGateway, "grading backend unavailable")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).
				Str("student_id", payload.StudentID).
				Uint("task_id", payload.TaskID).
				Msg("failed to grade transcript")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to grade transcript")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "transcript graded", submission)
}
