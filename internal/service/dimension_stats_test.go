package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advisio/advisio-api/internal/models"
)

func submissionWithScores(studentID string, scores ...float64) models.Submission {
	entries := make([]models.BreakdownEntry, 0, len(scores))
	for i, score := range scores {
		entries = append(entries, models.BreakdownEntry{
			CriterionID: string(rune('a' + i)),
			Score:       score,
		})
	}
	return models.Submission{StudentID: studentID, Breakdown: breakdownJSON(entries)}
}

func TestComputeDimensionStats(t *testing.T) {
	submissions := []models.Submission{
		submissionWithScores("s1", 5),
		submissionWithScores("s2", 10),
		submissionWithScores("s3", 15),
		submissionWithScores("s4", 20),
	}

	stats := ComputeDimensionStats(submissions, DefaultDimensionThreshold)

	require.Len(t, stats, 1)
	stat := stats[0]
	require.Equal(t, "D1", stat.Key)
	require.InDelta(t, 12.5, stat.Mean, 1e-9)
	// Nearest-rank percentiles: index 1 and 3 of the sorted scores.
	require.Equal(t, 10.0, stat.P25)
	require.Equal(t, 20.0, stat.P75)
	require.Equal(t, 2, stat.BelowThresholdCount)
}

func TestComputeDimensionStatsRaggedBreakdowns(t *testing.T) {
	submissions := []models.Submission{
		submissionWithScores("s1", 10, 18),
		submissionWithScores("s2", 14),
		submissionWithScores("s3", 6, 11),
	}

	stats := ComputeDimensionStats(submissions, DefaultDimensionThreshold)

	require.Len(t, stats, 2)
	require.Equal(t, "D1", stats[0].Key)
	require.InDelta(t, 10.0, stats[0].Mean, 1e-9)
	require.Equal(t, 2, stats[0].BelowThresholdCount)

	// D2 only exists for the submissions that carried a second entry.
	require.Equal(t, "D2", stats[1].Key)
	require.InDelta(t, 14.5, stats[1].Mean, 1e-9)
	require.Equal(t, 1, stats[1].BelowThresholdCount)
}

func TestComputeDimensionStatsEmptyInput(t *testing.T) {
	require.Empty(t, ComputeDimensionStats(nil, DefaultDimensionThreshold))
	require.Empty(t, ComputeDimensionStats([]models.Submission{{StudentID: "s1"}}, DefaultDimensionThreshold))
}

func TestComputeDimensionStatsCustomThreshold(t *testing.T) {
	submissions := []models.Submission{
		submissionWithScores("s1", 3),
		submissionWithScores("s2", 7),
	}

	stats := ComputeDimensionStats(submissions, 5)
	require.Len(t, stats, 1)
	require.Equal(t, 1, stats[0].BelowThresholdCount)
}

func TestSortDimensionStatsByMean(t *testing.T) {
	stats := []DimensionStat{
		{Key: "D1", Mean: 14},
		{Key: "D2", Mean: 8},
		{Key: "D3", Mean: 11},
	}

	sorted := SortDimensionStatsByMean(stats)

	require.Equal(t, "D2", sorted[0].Key)
	require.Equal(t, "D3", sorted[1].Key)
	require.Equal(t, "D1", sorted[2].Key)
	// Input order is untouched.
	require.Equal(t, "D1", stats[0].Key)
}
