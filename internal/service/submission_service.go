package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/repository"
)

// ErrSubmissionNotFound indicates the submission was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService exposes read access to graded submissions.
type SubmissionService interface {
	List(ctx context.Context, teacherID uint, req dto.SubmissionListRequest) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionDetailResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	tasks       repository.TaskRepository
	logger      zerolog.Logger
}

// NewSubmissionService constructs the submission read service.
func NewSubmissionService(submissions repository.SubmissionRepository, tasks repository.TaskRepository, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		tasks:       tasks,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) List(ctx context.Context, teacherID uint, req dto.SubmissionListRequest) ([]dto.SubmissionResponse, error) {
	filter := repository.SubmissionFilter{TeacherID: &teacherID}
	if req.StudentID != nil {
		filter.StudentID = req.StudentID
	}
	if req.TaskID != nil {
		filter.TaskID = req.TaskID
	}
	if req.ClassName != nil {
		filter.ClassName = req.ClassName
	}
	if req.AssignmentID != nil {
		filter.AssignmentID = req.AssignmentID
	}

	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionDetailResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionDetailResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionDetailResponse{}, err
	}

	detail := dto.SubmissionDetailResponse{
		SubmissionResponse: dto.NewSubmissionResponse(submission),
	}

	// Reconcile the frozen breakdown against the live rubric; a deleted
	// task leaves every entry rendered as unknown rather than failing.
	task, err := s.tasks.GetByID(ctx, submission.TaskID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionDetailResponse{}, err
	}
	detail.BreakdownViews = dto.NewBreakdownViews(submission, task)

	return detail, nil
}
