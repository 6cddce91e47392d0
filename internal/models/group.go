package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// GroupType distinguishes teacher-curated groups from generated score tiers.
type GroupType string

const (
	// GroupTypeManual is a group assembled by hand.
	GroupTypeManual GroupType = "manual"
	// GroupTypeAutoScoreBucket is a group generated from a score range.
	GroupTypeAutoScoreBucket GroupType = "auto_score_bucket"
)

// StudentGroup is a named subset of a class used for task targeting.
//
// ClassName is fixed at creation. If a member later moves to another class the
// membership goes stale; that condition is surfaced by the grouping engine,
// never healed automatically. Groups are hard-deleted, and membership is only
// mutated by full replacement of the stored id set.
type StudentGroup struct {
	ID         string            `gorm:"primaryKey;size:64" json:"id"`
	TeacherID  uint              `gorm:"not null;index" json:"teacher_id"`
	ClassName  string            `gorm:"size:128;not null" json:"class_name"`
	Name       string            `gorm:"size:255;not null" json:"name"`
	Type       GroupType         `gorm:"size:32;not null" json:"type"`
	StudentIDs datatypes.JSON    `gorm:"type:json" json:"student_ids"`
	Meta       datatypes.JSONMap `gorm:"type:json" json:"meta"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Members decodes the stored student ids, deduplicated and order-preserving.
// Duplicates are tolerated at rest and collapsed on read.
func (g StudentGroup) Members() []string {
	if len(g.StudentIDs) == 0 {
		return nil
	}

	var raw []string
	if err := json.Unmarshal(g.StudentIDs, &raw); err != nil {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	members := make([]string, 0, len(raw))
	for _, id := range raw {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members
}

// HasMember reports whether the student id is in the stored membership.
func (g StudentGroup) HasMember(studentID string) bool {
	for _, id := range g.Members() {
		if id == studentID {
			return true
		}
	}
	return false
}
