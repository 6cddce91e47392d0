package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/models"
)

// GroupFilter narrows group queries. StudentID filters on stored membership
// and is applied after load because members live in a JSON column.
type GroupFilter struct {
	TeacherID *uint
	ClassName *string
	StudentID *string
}

// GroupRepository defines data operations for student groups.
type GroupRepository interface {
	List(ctx context.Context, filter GroupFilter) ([]models.StudentGroup, error)
	GetByID(ctx context.Context, id string) (models.StudentGroup, error)
	Create(ctx context.Context, group *models.StudentGroup) error
	Update(ctx context.Context, group *models.StudentGroup) error
	Delete(ctx context.Context, id string) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository instantiates the repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) List(ctx context.Context, filter GroupFilter) ([]models.StudentGroup, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentGroup{})

	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}

	if filter.ClassName != nil {
		query = query.Where("class_name = ?", *filter.ClassName)
	}

	var groups []models.StudentGroup
	if err := query.Order("created_at DESC").Find(&groups).Error; err != nil {
		return nil, err
	}

	if filter.StudentID != nil {
		matched := make([]models.StudentGroup, 0, len(groups))
		for _, group := range groups {
			if group.HasMember(*filter.StudentID) {
				matched = append(matched, group)
			}
		}
		groups = matched
	}

	return groups, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (models.StudentGroup, error) {
	var group models.StudentGroup
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		return models.StudentGroup{}, err
	}

	return group, nil
}

func (r *groupRepository) Create(ctx context.Context, group *models.StudentGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) Update(ctx context.Context, group *models.StudentGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.StudentGroup{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
