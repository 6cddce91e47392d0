package dto

import (
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// StudentListRequest describes roster query filters.
type StudentListRequest struct {
	ClassName *string `query:"class_name"`
}

// StudentClassUpdateRequest moves a student to another class (or clears it).
type StudentClassUpdateRequest struct {
	ClassName string `json:"class_name"`
}

// StudentResponse serializes a roster entry.
type StudentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ClassName string    `json:"class_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		ClassName: model.ClassName,
		CreatedAt: model.CreatedAt,
	}
}

// NewStudentResponseSlice converts student models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
