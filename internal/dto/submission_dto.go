package dto

import (
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// GradeTranscriptRequest asks the grading pipeline to evaluate a role-play
// transcript against a task rubric.
type GradeTranscriptRequest struct {
	StudentID    string `json:"student_id" validate:"required"`
	TaskID       uint   `json:"task_id" validate:"required,gt=0"`
	AssignmentID string `json:"assignment_id"`
	Transcript   string `json:"transcript" validate:"required,min=1"`
}

// SubmissionListRequest describes query string filters for listing submissions.
type SubmissionListRequest struct {
	StudentID    *string `query:"student_id"`
	TaskID       *uint   `query:"task_id"`
	ClassName    *string `query:"class_name"`
	AssignmentID *string `query:"assignment_id"`
}

// BreakdownView is a breakdown entry reconciled against the current rubric.
// Description and MaxPoints come from a criterion-id lookup on the live task;
// entries whose criterion has been retired render as unknown.
type BreakdownView struct {
	CriterionID string  `json:"criterion_id"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	MaxPoints   float64 `json:"max_points"`
	Comment     string  `json:"comment"`
	Known       bool    `json:"known"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint                    `json:"id"`
	StudentID    string                  `json:"student_id"`
	StudentName  string                  `json:"student_name"`
	TaskID       uint                    `json:"task_id"`
	TaskName     string                  `json:"task_name"`
	TotalScore   float64                 `json:"total_score"`
	MaxScore     float64                 `json:"max_score"`
	Feedback     string                  `json:"feedback"`
	Breakdown    []models.BreakdownEntry `json:"breakdown"`
	ClassName    string                  `json:"class_name"`
	GroupIDs     []string                `json:"group_ids"`
	AssignmentID string                  `json:"assignment_id,omitempty"`
	SubmittedAt  time.Time               `json:"submitted_at"`
}

// SubmissionDetailResponse augments a submission with its breakdown
// reconciled against the current rubric.
type SubmissionDetailResponse struct {
	SubmissionResponse
	BreakdownViews []BreakdownView `json:"breakdown_views"`
}

// SubmissionLite summarizes a submission inside analytics payloads.
type SubmissionLite struct {
	ID          uint      `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	TaskName    string    `json:"task_name"`
	TotalScore  float64   `json:"total_score"`
	MaxScore    float64   `json:"max_score"`
	ClassName   string    `json:"class_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		StudentName:  model.StudentName,
		TaskID:       model.TaskID,
		TaskName:     model.TaskName,
		TotalScore:   model.TotalScore,
		MaxScore:     model.MaxScore,
		Feedback:     model.Feedback,
		Breakdown:    model.BreakdownEntries(),
		ClassName:    model.ClassName,
		GroupIDs:     model.GroupIDsAtSubmission(),
		AssignmentID: model.AssignmentID,
		SubmittedAt:  model.SubmittedAt,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}

// NewSubmissionLite converts a submission into its analytics summary form.
func NewSubmissionLite(model models.Submission) SubmissionLite {
	return SubmissionLite{
		ID:          model.ID,
		StudentID:   model.StudentID,
		StudentName: model.StudentName,
		TaskName:    model.TaskName,
		TotalScore:  model.TotalScore,
		MaxScore:    model.MaxScore,
		ClassName:   model.ClassName,
		SubmittedAt: model.SubmittedAt,
	}
}

// NewSubmissionLiteSlice converts submissions into analytics summaries.
func NewSubmissionLiteSlice(submissions []models.Submission) []SubmissionLite {
	lites := make([]SubmissionLite, 0, len(submissions))
	for _, submission := range submissions {
		lites = append(lites, NewSubmissionLite(submission))
	}
	return lites
}

// NewBreakdownViews reconciles a submission's breakdown against the current
// task rubric. Retired criterion ids keep their score but render with a "?"
// description and zero max points.
func NewBreakdownViews(submission models.Submission, task models.Task) []BreakdownView {
	entries := submission.BreakdownEntries()
	views := make([]BreakdownView, 0, len(entries))
	for _, entry := range entries {
		view := BreakdownView{
			CriterionID: entry.CriterionID,
			Description: "?",
			Score:       entry.Score,
			Comment:     entry.Comment,
		}
		if criterion, ok := task.CriterionByID(entry.CriterionID); ok {
			view.Description = criterion.Description
			view.MaxPoints = criterion.Points
			view.Known = true
		}
		views = append(views, view)
	}
	return views
}
