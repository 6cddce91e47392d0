package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advisio/advisio-api/internal/models"
)

func TestResolveScopeAssignmentIDWins(t *testing.T) {
	assignment := models.TaskAssignment{ID: "a1", ClassName: "10A"}
	submissions := []models.Submission{
		// Tagged with the assignment: in scope even though the frozen class
		// name has since diverged.
		{ID: 1, StudentID: "s1", AssignmentID: "a1", ClassName: "10B"},
		// Tagged with a different assignment: out of scope despite the class
		// matching.
		{ID: 2, StudentID: "s2", AssignmentID: "a2", ClassName: "10A"},
	}

	scoped := ResolveScope(assignment, submissions)

	require.Len(t, scoped, 1)
	require.Equal(t, uint(1), scoped[0].ID)
}

func TestResolveScopeLegacyByClass(t *testing.T) {
	assignment := models.TaskAssignment{ID: "a1", ClassName: "10A"}
	submissions := []models.Submission{
		{ID: 1, StudentID: "s1", ClassName: "10A"},
		{ID: 2, StudentID: "s2", ClassName: "10B"},
	}

	scoped := ResolveScope(assignment, submissions)

	require.Len(t, scoped, 1)
	require.Equal(t, uint(1), scoped[0].ID)
}

func TestResolveScopeGroupTargetingUsesFrozenMembership(t *testing.T) {
	assignment := models.TaskAssignment{
		ID:        "a1",
		ClassName: "10A",
		GroupIDs:  jsonSet("g1"),
	}
	submissions := []models.Submission{
		// Frozen group snapshot intersects the target.
		{ID: 1, StudentID: "s1", ClassName: "10A", GroupIDs: jsonSet("g1", "g9")},
		// Right class, wrong groups.
		{ID: 2, StudentID: "s2", ClassName: "10A", GroupIDs: jsonSet("g2")},
		// Right class, no group snapshot at all.
		{ID: 3, StudentID: "s3", ClassName: "10A"},
	}

	scoped := ResolveScope(assignment, submissions)

	require.Len(t, scoped, 1)
	require.Equal(t, uint(1), scoped[0].ID)
}

func TestResolveScopeWholeClassIgnoresGroups(t *testing.T) {
	assignment := models.TaskAssignment{ID: "a1", ClassName: "10A"}
	submissions := []models.Submission{
		{ID: 1, StudentID: "s1", ClassName: "10A", GroupIDs: jsonSet("g7")},
		{ID: 2, StudentID: "s2", ClassName: "10A"},
	}

	scoped := ResolveScope(assignment, submissions)
	require.Len(t, scoped, 2)
}
