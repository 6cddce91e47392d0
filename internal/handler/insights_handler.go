package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// InsightsHandler exposes the classroom analytics snapshot for teachers.
type InsightsHandler struct {
	service service.InsightsService
	logger  zerolog.Logger
}

// NewInsightsHandler constructs the handler.
func NewInsightsHandler(service service.InsightsService, logger zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		service: service,
		logger:  logger.With().Str("component", "insights_handler").Logger(),
	}
}

// Register attaches insights routes to the router group.
func (h *InsightsHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *InsightsHandler) get(c *fiber.Ctx) error {
	var req dto.InsightsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	teacherID := userIDFromContext(c)
	snapshot, err := h.service.GetSnapshot(c.Context(), teacherID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to build insights snapshot")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load insights")
		}
	}

	return utils.SendSuccess(c, "insights snapshot", snapshot)
}
