package service

import "github.com/advisio/advisio-api/internal/models"

// ResolveScope returns the submissions that count towards an assignment.
//
// A submission carrying the assignment's id was produced by the publish flow
// and is always in scope, even if its frozen class name has since diverged
// from the assignment's class. Submissions without an assignment id (legacy
// and test-mode runs) qualify by class name, and when the assignment targets
// specific groups, additionally by intersecting the submission's group
// snapshot frozen at submission time. Live group membership is never
// consulted: regrouping students after publishing must not change which
// historical submissions count.
func ResolveScope(assignment models.TaskAssignment, submissions []models.Submission) []models.Submission {
	targetGroups := assignment.TargetGroupIDs()

	scoped := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if submission.AssignmentID != "" {
			if submission.AssignmentID == assignment.ID {
				scoped = append(scoped, submission)
			}
			continue
		}

		if submission.ClassName != assignment.ClassName {
			continue
		}

		if len(targetGroups) > 0 && !intersects(submission.GroupIDsAtSubmission(), targetGroups) {
			continue
		}

		scoped = append(scoped, submission)
	}
	return scoped
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
