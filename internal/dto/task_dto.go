package dto

import (
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// CriterionRequest defines one rubric dimension in task payloads.
type CriterionRequest struct {
	ID          string  `json:"id" validate:"required,min=1"`
	Points      float64 `json:"points" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=1"`
}

// TaskCreateRequest captures role-play task creation payloads.
type TaskCreateRequest struct {
	Name       string             `json:"name" validate:"required,min=1"`
	Persona    string             `json:"persona"`
	Strictness string             `json:"strictness" validate:"required,oneof=lenient moderate strict very_strict"`
	Rubric     []CriterionRequest `json:"rubric" validate:"required,min=1,dive"`
}

// TaskUpdateRequest captures administrative edits to a task. Edits never
// rewrite historical grades.
type TaskUpdateRequest struct {
	Name       *string            `json:"name" validate:"omitempty,min=1"`
	Persona    *string            `json:"persona"`
	Strictness *string            `json:"strictness" validate:"omitempty,oneof=lenient moderate strict very_strict"`
	Rubric     []CriterionRequest `json:"rubric" validate:"omitempty,min=1,dive"`
}

// TaskResponse serializes a task with its rubric.
type TaskResponse struct {
	ID         uint               `json:"id"`
	Name       string             `json:"name"`
	TeacherID  uint               `json:"teacher_id"`
	Persona    string             `json:"persona"`
	Strictness string             `json:"strictness"`
	Rubric     []models.Criterion `json:"rubric"`
	MaxPoints  float64            `json:"max_points"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// NewTaskResponse converts a task model into a DTO.
func NewTaskResponse(model models.Task) TaskResponse {
	return TaskResponse{
		ID:         model.ID,
		Name:       model.Name,
		TeacherID:  model.TeacherID,
		Persona:    model.Persona,
		Strictness: string(model.Strictness),
		Rubric:     model.Criteria(),
		MaxPoints:  model.MaxPoints(),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewTaskResponseSlice converts task models into DTOs.
func NewTaskResponseSlice(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	return responses
}
