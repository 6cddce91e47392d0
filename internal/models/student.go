package models

import "time"

// Student roles known to the roster.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Student is a roster entry. ClassName is the student's current class and may
// be cleared when a class is deleted; group memberships referencing the
// student are intentionally left untouched by class changes.
type Student struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ClassName string    `gorm:"size:128;index" json:"class_name"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
