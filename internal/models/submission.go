package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// BreakdownEntry is one graded rubric dimension. Entries are positionally
// aligned with the task rubric as it existed at grading time, so the slice
// length may differ from the live rubric after administrative edits.
type BreakdownEntry struct {
	CriterionID string  `json:"criterion_id"`
	Score       float64 `json:"score"`
	Comment     string  `json:"comment"`
}

// Submission is a graded role-play transcript. Student, task, class and group
// fields are denormalized copies frozen at submission time; they must never be
// treated as live foreign-key lookups.
type Submission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	StudentID    string         `gorm:"size:64;not null;index" json:"student_id"`
	StudentName  string         `gorm:"size:255" json:"student_name"`
	TaskID       uint           `gorm:"not null;index" json:"task_id"`
	TaskName     string         `gorm:"size:255" json:"task_name"`
	TeacherID    uint           `gorm:"not null;index" json:"teacher_id"`
	TotalScore   float64        `gorm:"not null" json:"total_score"`
	MaxScore     float64        `gorm:"not null" json:"max_score"`
	Feedback     string         `gorm:"type:text" json:"feedback"`
	Breakdown    datatypes.JSON `gorm:"type:json" json:"breakdown"`
	ClassName    string         `gorm:"size:128" json:"class_name"`
	GroupIDs     datatypes.JSON `gorm:"type:json" json:"group_ids"`
	AssignmentID string         `gorm:"size:64;index" json:"assignment_id"`
	SubmittedAt  time.Time      `gorm:"not null;index" json:"submitted_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// BreakdownEntries decodes the per-criterion grade breakdown. Malformed or
// missing data decodes to an empty slice so analytics degrade instead of fail.
func (s Submission) BreakdownEntries() []BreakdownEntry {
	if len(s.Breakdown) == 0 {
		return nil
	}

	var entries []BreakdownEntry
	if err := json.Unmarshal(s.Breakdown, &entries); err != nil {
		return nil
	}
	return entries
}

// GroupIDsAtSubmission decodes the group membership snapshot frozen when the
// submission was created. Regrouping students afterwards does not change it.
func (s Submission) GroupIDsAtSubmission() []string {
	if len(s.GroupIDs) == 0 {
		return nil
	}

	var ids []string
	if err := json.Unmarshal(s.GroupIDs, &ids); err != nil {
		return nil
	}
	return ids
}
