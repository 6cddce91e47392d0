package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
)

func newInsightsFixture(t *testing.T, submissions *stubSubmissionRepo, assignments *stubAssignmentRepo) (InsightsService, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewInsightsService(submissions, assignments, client, time.Minute, InsightsConfig{}, testLogger())
	return svc, server
}

func TestInsightsServiceCaching(t *testing.T) {
	now := time.Now()
	submissions := &stubSubmissionRepo{submissions: []models.Submission{
		{ID: 1, StudentID: "s1", TeacherID: 7, TotalScore: 85, MaxScore: 100, SubmittedAt: now.Add(-time.Hour)},
		{ID: 2, StudentID: "s2", TeacherID: 7, TotalScore: 45, MaxScore: 100, SubmittedAt: now.Add(-2 * time.Hour)},
	}}
	svc, _ := newInsightsFixture(t, submissions, &stubAssignmentRepo{})

	first, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, 2, first.StudentCount)
	require.InDelta(t, 65.0, first.AvgScore, 1e-9)
	require.Equal(t, 1, first.ScoreDist["80-89"])
	require.Equal(t, 1, first.ScoreDist["0-59"])

	// New data does not surface until the cache expires.
	submissions.submissions = append(submissions.submissions, models.Submission{
		ID: 3, StudentID: "s3", TeacherID: 7, TotalScore: 95, MaxScore: 100, SubmittedAt: now,
	})

	second, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.StudentCount, second.StudentCount)
}

func TestInsightsServiceCacheKeyVariesByFilters(t *testing.T) {
	now := time.Now()
	submissions := &stubSubmissionRepo{submissions: []models.Submission{
		{ID: 1, StudentID: "s1", TeacherID: 7, TaskID: 1, TotalScore: 85, SubmittedAt: now.Add(-time.Hour)},
		{ID: 2, StudentID: "s2", TeacherID: 7, TaskID: 2, TotalScore: 45, SubmittedAt: now.Add(-10 * 24 * time.Hour)},
	}}
	svc, _ := newInsightsFixture(t, submissions, &stubAssignmentRepo{})

	all, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, all.StudentCount)

	// A different time range is a distinct cache entry, not a stale hit.
	week, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{TimeRange: "7d"})
	require.NoError(t, err)
	require.False(t, week.CacheHit)
	require.Equal(t, 1, week.StudentCount)

	task, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{TaskFilter: "2"})
	require.NoError(t, err)
	require.False(t, task.CacheHit)
	require.Equal(t, 1, task.StudentCount)
}

func TestInsightsServiceAssignmentScoping(t *testing.T) {
	now := time.Now()
	submissions := &stubSubmissionRepo{submissions: []models.Submission{
		{ID: 1, StudentID: "s1", TeacherID: 7, ClassName: "10A", AssignmentID: "a1", TotalScore: 85, SubmittedAt: now},
		{ID: 2, StudentID: "s2", TeacherID: 7, ClassName: "10A", AssignmentID: "other", TotalScore: 45, SubmittedAt: now},
		{ID: 3, StudentID: "s3", TeacherID: 7, ClassName: "10B", TotalScore: 70, SubmittedAt: now},
	}}
	assignments := &stubAssignmentRepo{assignments: []models.TaskAssignment{
		{ID: "a1", TeacherID: 7, ClassName: "10A"},
	}}
	svc, _ := newInsightsFixture(t, submissions, assignments)

	snapshot, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{AssignmentID: "a1"})
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.StudentCount)
	require.Equal(t, 1, snapshot.ScoreDist["80-89"])
}

func TestInsightsServiceUnknownAssignment(t *testing.T) {
	svc, _ := newInsightsFixture(t, &stubSubmissionRepo{}, &stubAssignmentRepo{})

	_, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{AssignmentID: "missing"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestInsightsServiceInvalidTimeRange(t *testing.T) {
	svc, _ := newInsightsFixture(t, &stubSubmissionRepo{}, &stubAssignmentRepo{})

	_, err := svc.GetSnapshot(context.Background(), 7, dto.InsightsRequest{TimeRange: "90d"})

	var fieldErr *ValidationError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "time_range", fieldErr.Field)
}
