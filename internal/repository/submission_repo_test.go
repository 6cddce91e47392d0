package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/models"
)

func TestSubmissionRepositoryListFiltersAndSorts(t *testing.T) {
	db := setupTestDB(t, &models.Submission{})
	repo := NewSubmissionRepository(db)

	base := time.Now().Add(-time.Hour)
	seed := []models.Submission{
		{StudentID: "s1", TaskID: 1, TeacherID: 1, TotalScore: 70, MaxScore: 100, ClassName: "10A", AssignmentID: "a1", SubmittedAt: base},
		{StudentID: "s1", TaskID: 1, TeacherID: 1, TotalScore: 85, MaxScore: 100, ClassName: "10A", AssignmentID: "a1", SubmittedAt: base.Add(10 * time.Minute)},
		{StudentID: "s2", TaskID: 2, TeacherID: 1, TotalScore: 50, MaxScore: 100, ClassName: "10B", AssignmentID: "a2", SubmittedAt: base.Add(5 * time.Minute)},
	}
	for i := range seed {
		require.NoError(t, repo.Create(context.Background(), &seed[i]))
	}

	studentID := "s1"
	listed, err := repo.List(context.Background(), SubmissionFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, float64(85), listed[0].TotalScore, "expected newest submission first")

	className := "10B"
	listed, err = repo.List(context.Background(), SubmissionFilter{ClassName: &className})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "s2", listed[0].StudentID)

	assignmentID := "a1"
	taskID := uint(1)
	listed, err = repo.List(context.Background(), SubmissionFilter{AssignmentID: &assignmentID, TaskID: &taskID})
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestSubmissionRepositoryGetByID(t *testing.T) {
	db := setupTestDB(t, &models.Submission{})
	repo := NewSubmissionRepository(db)

	submission := models.Submission{StudentID: "s1", TaskID: 1, TeacherID: 1, TotalScore: 70, MaxScore: 100, SubmittedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), &submission))
	require.NotZero(t, submission.ID)

	fetched, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, "s1", fetched.StudentID)

	_, err = repo.GetByID(context.Background(), submission.ID+100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
