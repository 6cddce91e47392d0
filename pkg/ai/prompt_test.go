package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGraderSystemPromptVariesByStrictness(t *testing.T) {
	require.Contains(t, graderSystemPrompt("lenient"), "Grade generously")
	require.Contains(t, graderSystemPrompt("strict"), "Grade strictly")
	require.Contains(t, graderSystemPrompt("very_strict"), "Grade very strictly")

	// unknown values fall back to the balanced posture
	require.Contains(t, graderSystemPrompt(""), "Grade fairly")
	require.Contains(t, graderSystemPrompt("ruthless"), "Grade fairly")
}

func TestBuildGradePromptIncludesRubricAndTranscript(t *testing.T) {
	prompt := buildGradePrompt(GradeInput{
		TaskName:   "Retirement planning consult",
		Persona:    "Anxious first-time investor",
		Transcript: "Advisor: Welcome in.",
		Rubric: []RubricCriterion{
			{ID: "empathy", Points: 20, Description: "Builds rapport"},
			{ID: "compliance", Points: 20, Description: "Delivers risk disclosures"},
		},
	})

	require.Contains(t, prompt, "Retirement planning consult")
	require.Contains(t, prompt, "Anxious first-time investor")
	require.Contains(t, prompt, "1. [empathy] Builds rapport (20 points)")
	require.Contains(t, prompt, "2. [compliance] Delivers risk disclosures (20 points)")
	require.Contains(t, prompt, "Advisor: Welcome in.")
}

func TestBuildGradePromptOmitsEmptyPersona(t *testing.T) {
	prompt := buildGradePrompt(GradeInput{TaskName: "Cold call", Transcript: "hello"})
	require.NotContains(t, prompt, "Client Persona")
}
