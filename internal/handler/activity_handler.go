package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// ActivityHandler exposes the audit trail of grouping and grading mutations.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entity_type")),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return utils.OK(c, result.Items, "activity", result.Pagination)
}
