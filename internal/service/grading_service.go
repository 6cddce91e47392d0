package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
	"github.com/advisio/advisio-api/pkg/ai"
)

// GradingService runs a transcript through the AI grader and persists the
// graded submission with its denormalized snapshot fields.
type GradingService interface {
	GradeTranscript(ctx context.Context, actor ActivityActor, req dto.GradeTranscriptRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	tasks       repository.TaskRepository
	students    repository.StudentRepository
	groups      repository.GroupRepository
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	grader      ai.Grader
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradingService constructs the grading pipeline.
func NewGradingService(
	tasks repository.TaskRepository,
	students repository.StudentRepository,
	groups repository.GroupRepository,
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	grader ai.Grader,
	validate *validator.Validate,
	activity ActivityRecorder,
	events EventPublisher,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		tasks:       tasks,
		students:    students,
		groups:      groups,
		submissions: submissions,
		assignments: assignments,
		grader:      grader,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		events:      events,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/advisio/advisio-api/internal/service/grading"),
		now:         time.Now,
	}
}

func (s *gradingService) GradeTranscript(ctx context.Context, actor ActivityActor, req dto.GradeTranscriptRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.transcript", trace.WithAttributes(
		attribute.Int64("grading.task_id", int64(req.TaskID)),
		attribute.String("grading.student_id", req.StudentID),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTaskNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "task_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "student_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if req.AssignmentID != "" {
		if _, err := s.assignments.GetByID(ctx, req.AssignmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SubmissionResponse{}, ErrAssignmentNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "assignment_lookup_failed")
			return dto.SubmissionResponse{}, err
		}
	}

	criteria := task.Criteria()
	rubric := make([]ai.RubricCriterion, 0, len(criteria))
	for _, criterion := range criteria {
		rubric = append(rubric, ai.RubricCriterion{
			ID:          criterion.ID,
			Points:      criterion.Points,
			Description: criterion.Description,
		})
	}

	result, err := s.grader.Grade(ctx, ai.GradeInput{
		TaskName:   task.Name,
		Persona:    task.Persona,
		Strictness: string(task.Strictness),
		Transcript: req.Transcript,
		Rubric:     rubric,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grading_failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrGraderFailure, err)
	}

	// Freeze the student's live group membership onto the submission. The
	// snapshot is what assignment targeting consults later; regrouping the
	// student must not retroactively change this submission's scope.
	memberGroups, err := s.groups.List(ctx, repository.GroupFilter{StudentID: &student.ID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "group_snapshot_failed")
		return dto.SubmissionResponse{}, err
	}
	groupIDs := make([]string, 0, len(memberGroups))
	for _, group := range memberGroups {
		groupIDs = append(groupIDs, group.ID)
	}

	breakdown := make([]models.BreakdownEntry, 0, len(result.Breakdown))
	for _, item := range result.Breakdown {
		breakdown = append(breakdown, models.BreakdownEntry{
			CriterionID: item.CriterionID,
			Score:       item.Score,
			Comment:     s.sanitizer.Sanitize(item.Comment),
		})
	}
	breakdownJSON, _ := json.Marshal(breakdown)
	groupIDsJSON, _ := json.Marshal(groupIDs)

	submission := models.Submission{
		StudentID:    student.ID,
		StudentName:  student.Name,
		TaskID:       task.ID,
		TaskName:     task.Name,
		TeacherID:    task.TeacherID,
		TotalScore:   result.TotalScore,
		MaxScore:     result.MaxScore,
		Feedback:     s.sanitizer.Sanitize(result.Feedback),
		Breakdown:    datatypes.JSON(breakdownJSON),
		ClassName:    student.ClassName,
		GroupIDs:     datatypes.JSON(groupIDsJSON),
		AssignmentID: req.AssignmentID,
		SubmittedAt:  s.now(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_create_failed")
		return dto.SubmissionResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   student.ID,
			Metadata: map[string]interface{}{
				"task_id":     task.ID,
				"total_score": result.TotalScore,
				"max_score":   result.MaxScore,
			},
		})
	}

	response := dto.NewSubmissionResponse(submission)
	s.events.Publish("submission.graded", response)

	span.SetAttributes(
		attribute.Float64("grading.total_score", result.TotalScore),
		attribute.Float64("grading.max_score", result.MaxScore),
	)

	return response, nil
}
