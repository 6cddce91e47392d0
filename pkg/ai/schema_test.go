package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGradeResultAcceptsValidPayload(t *testing.T) {
	payload := `{
		"total_score": 31,
		"max_score": 40,
		"feedback": "Solid rapport, shallow needs analysis.",
		"breakdown": [
			{"criterion_id": "empathy", "score": 18, "comment": "Strong"},
			{"criterion_id": "compliance", "score": 13}
		]
	}`

	result, err := ParseGradeResult(payload)
	require.NoError(t, err)
	require.Equal(t, float64(31), result.TotalScore)
	require.Equal(t, float64(40), result.MaxScore)
	require.Len(t, result.Breakdown, 2)
	require.Equal(t, "compliance", result.Breakdown[1].CriterionID)
	require.Empty(t, result.Breakdown[1].Comment)
}

func TestParseGradeResultToleratesUnreconciledTotal(t *testing.T) {
	// total_score does not equal the breakdown sum; the parser reports it as-is.
	payload := `{
		"total_score": 99,
		"max_score": 40,
		"feedback": "",
		"breakdown": [{"criterion_id": "empathy", "score": 1}]
	}`

	result, err := ParseGradeResult(payload)
	require.NoError(t, err)
	require.Equal(t, float64(99), result.TotalScore)
}

func TestParseGradeResultRejectsInvalidPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":            `grade: B+`,
		"missing total_score": `{"max_score": 40, "feedback": "", "breakdown": []}`,
		"negative score":      `{"total_score": -1, "max_score": 40, "feedback": "", "breakdown": []}`,
		"breakdown item without criterion": `{
			"total_score": 10, "max_score": 40, "feedback": "",
			"breakdown": [{"score": 10}]
		}`,
		"string total": `{"total_score": "ten", "max_score": 40, "feedback": "", "breakdown": []}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGradeResult(payload)
			require.Error(t, err)
		})
	}
}
