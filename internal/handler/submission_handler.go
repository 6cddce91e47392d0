package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// SubmissionHandler exposes graded submission listings and detail views.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches submission routes to the router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	taskID, err := parseQueryUint(c, "task_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid task_id")
	}

	req := dto.SubmissionListRequest{
		StudentID:    optionalQuery(c, "student_id"),
		TaskID:       taskID,
		ClassName:    optionalQuery(c, "class_name"),
		AssignmentID: optionalQuery(c, "assignment_id"),
	}

	submissions, err := h.service.List(c.Context(), userIDFromContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions", submissions)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	submission, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("submission_id", id).Msg("failed to load submission")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load submission")
	}

	return utils.SendSuccess(c, "submission detail", submission)
}
