package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/models"
)

// AssignmentFilter narrows assignment queries.
type AssignmentFilter struct {
	TeacherID *uint
	ClassName *string
	TaskID    *uint
}

// AssignmentRepository defines data operations for task assignments.
// Assignments are immutable after creation, so there is no update.
type AssignmentRepository interface {
	List(ctx context.Context, filter AssignmentFilter) ([]models.TaskAssignment, error)
	GetByID(ctx context.Context, id string) (models.TaskAssignment, error)
	Create(ctx context.Context, assignment *models.TaskAssignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.TaskAssignment, error) {
	query := r.db.WithContext(ctx).Model(&models.TaskAssignment{})

	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}

	if filter.ClassName != nil {
		query = query.Where("class_name = ?", *filter.ClassName)
	}

	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}

	var assignments []models.TaskAssignment
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return models.TaskAssignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.TaskAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}
