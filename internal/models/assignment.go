package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// TaskAssignment records that a task was published to a class, optionally
// narrowed to a subset of its groups. Assignments are immutable once created.
type TaskAssignment struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	TaskID    uint           `gorm:"not null;index" json:"task_id"`
	TeacherID uint           `gorm:"not null;index" json:"teacher_id"`
	ClassName string         `gorm:"size:128;not null" json:"class_name"`
	GroupIDs  datatypes.JSON `gorm:"type:json" json:"group_ids"`
	Title     string         `gorm:"size:255" json:"title"`
	CreatedAt time.Time      `json:"created_at"`
}

// TargetGroupIDs decodes the targeted group ids. Empty means the whole class.
func (a TaskAssignment) TargetGroupIDs() []string {
	if len(a.GroupIDs) == 0 {
		return nil
	}

	var ids []string
	if err := json.Unmarshal(a.GroupIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// TargetsWholeClass reports whether the assignment has no group narrowing.
func (a TaskAssignment) TargetsWholeClass() bool {
	return len(a.TargetGroupIDs()) == 0
}
