package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/service"
	"github.com/advisio/advisio-api/internal/utils"
)

// GroupHandler exposes manual and score-derived group management endpoints.
type GroupHandler struct {
	service service.GroupService
	logger  zerolog.Logger
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(service service.GroupService, logger zerolog.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		logger:  logger.With().Str("component", "group_handler").Logger(),
	}
}

// Register attaches group routes to the router group.
func (h *GroupHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/auto", h.generateAuto)
	router.Post("/from-bucket", h.createFromBucket)
	router.Get("/:id", h.get)
	router.Put("/:id/members", h.updateMembers)
	router.Delete("/:id", h.delete)
}

// RegisterClassRoutes attaches the class-level cascade endpoints.
func (h *GroupHandler) RegisterClassRoutes(router fiber.Router) {
	router.Delete("/:name", h.deleteClass)
}

func (h *GroupHandler) list(c *fiber.Ctx) error {
	teacherID := userIDFromContext(c)
	className := strings.TrimSpace(c.Query("class_name"))
	studentID := strings.TrimSpace(c.Query("student_id"))

	groups, err := h.service.List(c.Context(), teacherID, className, studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list groups")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list groups")
	}

	return utils.SendSuccess(c, "groups", groups)
}

func (h *GroupHandler) get(c *fiber.Ctx) error {
	group, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("group_id", c.Params("id")).Msg("failed to load group")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load group")
	}

	return utils.SendSuccess(c, "group detail", group)
}

func (h *GroupHandler) create(c *fiber.Ctx) error {
	var payload dto.GroupCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	group, err := h.service.Create(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create group")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create group")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", group)
}

func (h *GroupHandler) updateMembers(c *fiber.Ctx) error {
	var payload dto.GroupUpdateMembersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.UpdateMembers(c.Context(), activityActorFromContext(c), c.Params("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("group_id", c.Params("id")).Msg("failed to update group members")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update group members")
		}
	}

	return utils.SendSuccess(c, "group members updated", result)
}

func (h *GroupHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), activityActorFromContext(c), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("group_id", c.Params("id")).Msg("failed to delete group")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete group")
	}

	return utils.SendSuccess(c, "group deleted", nil)
}

func (h *GroupHandler) deleteClass(c *fiber.Ctx) error {
	className := strings.TrimSpace(c.Params("name"))

	result, err := h.service.DeleteClass(c.Context(), activityActorFromContext(c), className)
	if err != nil {
		var partial *service.PartialFailure
		switch {
		case errors.As(err, &partial):
			requestLogger(h.logger, c).Warn().
				Str("class_name", className).
				Int("failed_steps", len(partial.FailedSteps())).
				Msg("class deletion completed partially")
			return utils.Fail(c, fiber.StatusMultiStatus, "class deletion completed partially", result)
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("class_name", className).Msg("failed to delete class")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete class")
		}
	}

	return utils.SendSuccess(c, "class deleted", result)
}

func (h *GroupHandler) generateAuto(c *fiber.Ctx) error {
	var payload dto.AutoGroupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	groups, err := h.service.GenerateAutoGroups(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		var partial *service.PartialFailure
		var resolution *service.ResolutionError
		switch {
		case errors.As(err, &partial):
			requestLogger(h.logger, c).Warn().
				Str("assignment_id", payload.AssignmentID).
				Int("failed_steps", len(partial.FailedSteps())).
				Msg("auto grouping completed partially")
			return utils.Fail(c, fiber.StatusMultiStatus, "auto grouping completed partially", groups)
		case errors.As(err, &resolution):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Str("assignment_id", payload.AssignmentID).Msg("failed to generate auto groups")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate auto groups")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "auto groups created", groups)
}

func (h *GroupHandler) createFromBucket(c *fiber.Ctx) error {
	var payload dto.GroupFromBucketRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	group, err := h.service.CreateFromBucket(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Str("label", payload.Label).Msg("failed to create group from bucket")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create group from bucket")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", group)
}
