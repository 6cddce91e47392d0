package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
)

// AssignmentService publishes tasks to classes and resolves their results.
type AssignmentService interface {
	List(ctx context.Context, teacherID uint, req dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Create(ctx context.Context, actor ActivityActor, req dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Results(ctx context.Context, assignmentID string) ([]dto.SubmissionResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	tasks       repository.TaskRepository
	groups      repository.GroupRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	tasks repository.TaskRepository,
	groups repository.GroupRepository,
	submissions repository.SubmissionRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		tasks:       tasks,
		groups:      groups,
		submissions: submissions,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *assignmentService) List(ctx context.Context, teacherID uint, req dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	filter := repository.AssignmentFilter{TeacherID: &teacherID}
	if req.ClassName != nil {
		filter.ClassName = req.ClassName
	}
	if req.TaskID != nil {
		filter.TaskID = req.TaskID
	}

	assignments, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Create(ctx context.Context, actor ActivityActor, req dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AssignmentResponse{}, err
	}

	className := strings.TrimSpace(req.ClassName)
	if className == "" {
		return dto.AssignmentResponse{}, &ValidationError{Field: "class_name", Reason: "must not be blank"}
	}

	if _, err := s.tasks.GetByID(ctx, req.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrTaskNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	for _, groupID := range req.GroupIDs {
		if _, err := s.groups.GetByID(ctx, groupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.AssignmentResponse{}, &ValidationError{Field: "group_ids", Reason: "unknown group " + groupID}
			}
			return dto.AssignmentResponse{}, err
		}
	}

	assignment := models.TaskAssignment{
		ID:        s.newID(),
		TaskID:    req.TaskID,
		TeacherID: actor.ID,
		ClassName: className,
		GroupIDs:  encodeStringSet(req.GroupIDs),
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: s.now(),
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "assignment.published",
			EntityType: "assignment",
			EntityID:   assignment.ID,
			Metadata: map[string]interface{}{
				"task_id":    assignment.TaskID,
				"class_name": assignment.ClassName,
				"groups":     len(assignment.TargetGroupIDs()),
			},
		})
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Results(ctx context.Context, assignmentID string) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TeacherID: &assignment.TeacherID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(ResolveScope(assignment, submissions)), nil
}
