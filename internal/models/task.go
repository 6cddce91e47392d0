package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Strictness controls how harshly the AI evaluator grades a transcript.
type Strictness string

const (
	// StrictnessLenient grades generously, rewarding partial effort.
	StrictnessLenient Strictness = "lenient"
	// StrictnessModerate is the default grading posture.
	StrictnessModerate Strictness = "moderate"
	// StrictnessStrict penalises missing rubric coverage.
	StrictnessStrict Strictness = "strict"
	// StrictnessVeryStrict awards points only for fully demonstrated skills.
	StrictnessVeryStrict Strictness = "very_strict"
)

// IsValid reports whether the strictness level is one of the known values.
func (s Strictness) IsValid() bool {
	switch s {
	case StrictnessLenient, StrictnessModerate, StrictnessStrict, StrictnessVeryStrict:
		return true
	}
	return false
}

// Criterion is a single rubric dimension a transcript is graded against.
type Criterion struct {
	ID          string  `json:"id"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// Task is a role-play scenario with the rubric used to grade it.
// Editing the rubric never rewrites historical grades: submissions keep the
// breakdown produced against the rubric as it was at grading time.
type Task struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	TeacherID  uint           `gorm:"not null;index" json:"teacher_id"`
	Persona    string         `gorm:"type:text" json:"persona"`
	Strictness Strictness     `gorm:"size:32;not null" json:"strictness"`
	Rubric     datatypes.JSON `gorm:"type:json" json:"rubric"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Criteria decodes the ordered rubric criteria. A malformed or empty rubric
// yields an empty slice rather than an error.
func (t Task) Criteria() []Criterion {
	if len(t.Rubric) == 0 {
		return nil
	}

	var criteria []Criterion
	if err := json.Unmarshal(t.Rubric, &criteria); err != nil {
		return nil
	}
	return criteria
}

// CriterionByID looks up a rubric criterion by id against the current rubric.
// Returns false when the id no longer exists, which callers must tolerate:
// submissions graded before a rubric edit may reference retired criteria.
func (t Task) CriterionByID(id string) (Criterion, bool) {
	for _, criterion := range t.Criteria() {
		if criterion.ID == id {
			return criterion, true
		}
	}
	return Criterion{}, false
}

// MaxPoints sums the rubric criteria points.
func (t Task) MaxPoints() float64 {
	total := 0.0
	for _, criterion := range t.Criteria() {
		total += criterion.Points
	}
	return total
}
