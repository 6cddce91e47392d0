package ai

import "context"

// RubricCriterion is one rubric dimension handed to the grader.
type RubricCriterion struct {
	ID          string  `json:"id"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// GradeInput contains the artefacts needed to grade a role-play transcript.
type GradeInput struct {
	TaskName   string
	Persona    string
	Strictness string
	Transcript string
	Rubric     []RubricCriterion
}

// BreakdownItem is the grader's verdict on a single rubric criterion.
// Items follow the rubric order given in the input.
type BreakdownItem struct {
	CriterionID string  `json:"criterion_id"`
	Score       float64 `json:"score"`
	Comment     string  `json:"comment"`
}

// GradeResult is the structured grade returned by the model. TotalScore is
// reported as-is: it is not guaranteed to equal the sum of breakdown scores
// and callers must not assume it does.
type GradeResult struct {
	TotalScore float64                `json:"total_score"`
	MaxScore   float64                `json:"max_score"`
	Feedback   string                 `json:"feedback"`
	Breakdown  []BreakdownItem        `json:"breakdown"`
	Raw        map[string]interface{} `json:"raw,omitempty"`
}

// Grader describes an AI model capable of grading role-play transcripts
// against a rubric.
type Grader interface {
	Grade(ctx context.Context, input GradeInput) (GradeResult, error)
}
