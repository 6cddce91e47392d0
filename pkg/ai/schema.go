package ai

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// gradeResultSchema constrains the JSON the model must return. Deliberately
// absent: any relation between total_score and the breakdown sum — the
// grader reports what the model said and downstream code must not assume
// they reconcile.
const gradeResultSchema = `{
  "type": "object",
  "required": ["total_score", "max_score", "feedback", "breakdown"],
  "properties": {
    "total_score": {"type": "number", "minimum": 0},
    "max_score": {"type": "number", "minimum": 0},
    "feedback": {"type": "string"},
    "breakdown": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["criterion_id", "score"],
        "properties": {
          "criterion_id": {"type": "string"},
          "score": {"type": "number", "minimum": 0},
          "comment": {"type": "string"}
        }
      }
    }
  }
}`

var compiledGradeSchema = jsonschema.MustCompileString("grade_result.json", gradeResultSchema)

// ParseGradeResult decodes and validates a model response payload.
func ParseGradeResult(content string) (GradeResult, error) {
	var generic interface{}
	if err := json.Unmarshal([]byte(content), &generic); err != nil {
		return GradeResult{}, fmt.Errorf("parse grade json: %w", err)
	}

	if err := compiledGradeSchema.Validate(generic); err != nil {
		return GradeResult{}, fmt.Errorf("grade json failed schema validation: %w", err)
	}

	var result GradeResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return GradeResult{}, fmt.Errorf("decode grade json: %w", err)
	}

	return result, nil
}
