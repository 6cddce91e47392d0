package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
)

// TaskService manages role-play tasks and their rubrics.
type TaskService interface {
	List(ctx context.Context, teacherID uint) ([]dto.TaskResponse, error)
	Get(ctx context.Context, id uint) (dto.TaskResponse, error)
	Create(ctx context.Context, actor ActivityActor, req dto.TaskCreateRequest) (dto.TaskResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error)
	Delete(ctx context.Context, actor ActivityActor, id uint) error
}

type taskService struct {
	repo      repository.TaskRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTaskService constructs the task service.
func NewTaskService(repo repository.TaskRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "task_service").Logger(),
		now:       time.Now,
	}
}

func (s *taskService) List(ctx context.Context, teacherID uint) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.List(ctx, repository.TaskFilter{TeacherID: &teacherID})
	if err != nil {
		return nil, err
	}
	return dto.NewTaskResponseSlice(tasks), nil
}

func (s *taskService) Get(ctx context.Context, id uint) (dto.TaskResponse, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Create(ctx context.Context, actor ActivityActor, req dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	rubric, err := encodeRubric(req.Rubric)
	if err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.Task{
		Name:       strings.TrimSpace(req.Name),
		TeacherID:  actor.ID,
		Persona:    req.Persona,
		Strictness: models.Strictness(req.Strictness),
		Rubric:     rubric,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.record(ctx, actor, "task.created", task)
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, actor ActivityActor, id uint, req dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if req.Name != nil {
		task.Name = strings.TrimSpace(*req.Name)
	}
	if req.Persona != nil {
		task.Persona = *req.Persona
	}
	if req.Strictness != nil {
		task.Strictness = models.Strictness(*req.Strictness)
	}
	if req.Rubric != nil {
		// Rubric edits apply from now on; grades recorded against the old
		// rubric keep their original breakdown.
		rubric, err := encodeRubric(req.Rubric)
		if err != nil {
			return dto.TaskResponse{}, err
		}
		task.Rubric = rubric
	}

	if err := s.repo.Update(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.record(ctx, actor, "task.updated", task)
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, actor ActivityActor, id uint) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "task.deleted", task)
	return nil
}

func (s *taskService) record(ctx context.Context, actor ActivityActor, action string, task models.Task) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "task",
		Metadata: map[string]interface{}{
			"task_id": task.ID,
			"name":    task.Name,
		},
	})
}

func encodeRubric(criteria []dto.CriterionRequest) (datatypes.JSON, error) {
	seen := make(map[string]struct{}, len(criteria))
	rubric := make([]models.Criterion, 0, len(criteria))
	for _, req := range criteria {
		id := strings.TrimSpace(req.ID)
		if id == "" {
			return nil, &ValidationError{Field: "rubric", Reason: "criterion id must not be blank"}
		}
		if _, ok := seen[id]; ok {
			return nil, &ValidationError{Field: "rubric", Reason: "duplicate criterion id " + id}
		}
		seen[id] = struct{}{}
		rubric = append(rubric, models.Criterion{
			ID:          id,
			Points:      req.Points,
			Description: req.Description,
		})
	}

	data, err := json.Marshal(rubric)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}
