package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
)

// StudentService exposes the roster and class reassignment.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) ([]dto.StudentResponse, error)
	UpdateClass(ctx context.Context, actor ActivityActor, studentID string, req dto.StudentClassUpdateRequest) error
}

type studentService struct {
	repo     repository.StudentRepository
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewStudentService constructs the roster service.
func NewStudentService(repo repository.StudentRepository, activity ActivityRecorder, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:     repo,
		activity: activity,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) ([]dto.StudentResponse, error) {
	filter := repository.StudentFilter{Role: models.RoleStudent}
	if req.ClassName != nil {
		filter.ClassName = req.ClassName
	}

	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) UpdateClass(ctx context.Context, actor ActivityActor, studentID string, req dto.StudentClassUpdateRequest) error {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return &ValidationError{Field: "student_id", Reason: "must not be blank"}
	}

	// Moving a student never touches the groups that reference them; stale
	// membership is surfaced by the grouping engine on read instead.
	if err := s.repo.UpdateClass(ctx, studentID, strings.TrimSpace(req.ClassName)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "student.class_changed",
			EntityType: "student",
			EntityID:   studentID,
			Metadata: map[string]interface{}{
				"class_name": req.ClassName,
			},
		})
	}

	return nil
}
