package dto

import (
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// AssignmentCreateRequest publishes a task to a class or a subset of groups.
type AssignmentCreateRequest struct {
	TaskID    uint     `json:"task_id" validate:"required,gt=0"`
	ClassName string   `json:"class_name" validate:"required,min=1"`
	GroupIDs  []string `json:"group_ids"`
	Title     string   `json:"title"`
}

// AssignmentListRequest describes query string filters for assignments.
type AssignmentListRequest struct {
	ClassName *string `query:"class_name"`
	TaskID    *uint   `query:"task_id"`
}

// AssignmentResponse serializes a task assignment.
type AssignmentResponse struct {
	ID        string    `json:"id"`
	TaskID    uint      `json:"task_id"`
	TeacherID uint      `json:"teacher_id"`
	ClassName string    `json:"class_name"`
	GroupIDs  []string  `json:"group_ids"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAssignmentResponse converts an assignment model into a DTO.
func NewAssignmentResponse(model models.TaskAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:        model.ID,
		TaskID:    model.TaskID,
		TeacherID: model.TeacherID,
		ClassName: model.ClassName,
		GroupIDs:  model.TargetGroupIDs(),
		Title:     model.Title,
		CreatedAt: model.CreatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.TaskAssignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}
	return responses
}
