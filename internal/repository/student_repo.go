package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/models"
)

// StudentFilter narrows roster queries.
type StudentFilter struct {
	Role      string
	ClassName *string
}

// StudentRepository defines data operations for the student roster.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, id string) (models.Student, error)
	UpdateClass(ctx context.Context, studentID, className string) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if filter.ClassName != nil {
		query = query.Where("class_name = ?", *filter.ClassName)
	}

	var students []models.Student
	if err := query.Order("name ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) UpdateClass(ctx context.Context, studentID, className string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", studentID).
		Update("class_name", className)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
