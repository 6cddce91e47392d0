package service

import (
	"fmt"
	"sort"

	"github.com/advisio/advisio-api/internal/models"
)

// DefaultDimensionThreshold is the absolute score below which a rubric
// dimension counts as weak. It assumes the reference ~20-point criterion
// scale and is deliberately not scaled to each criterion's max points;
// override it via SnapshotOptions or config for rubrics with uneven weights.
const DefaultDimensionThreshold = 12

// DimensionStat summarises one rubric dimension across a submission set.
// Keys are positional (D1, D2, ...), not criterion ids: breakdowns are
// aligned to the rubric order at grading time, so mixing tasks with
// differently ordered rubrics conflates dimensions by position only.
type DimensionStat struct {
	Key                 string  `json:"key"`
	Mean                float64 `json:"mean"`
	P25                 float64 `json:"p25"`
	P75                 float64 `json:"p75"`
	BelowThresholdCount int     `json:"below_threshold_count"`
}

// ComputeDimensionStats aggregates breakdown scores by positional index.
//
// Percentiles use the nearest-rank method: the value at floor(0.25*n) and
// floor(0.75*n) of the ascending-sorted scores. The function has no error
// path; ragged breakdowns and empty input degrade to fewer or zero stats.
func ComputeDimensionStats(submissions []models.Submission, threshold float64) []DimensionStat {
	if threshold <= 0 {
		threshold = DefaultDimensionThreshold
	}

	var byIndex [][]float64
	for _, submission := range submissions {
		for i, entry := range submission.BreakdownEntries() {
			for len(byIndex) <= i {
				byIndex = append(byIndex, nil)
			}
			byIndex[i] = append(byIndex[i], entry.Score)
		}
	}

	stats := make([]DimensionStat, 0, len(byIndex))
	for i, scores := range byIndex {
		if len(scores) == 0 {
			continue
		}

		sorted := append([]float64(nil), scores...)
		sort.Float64s(sorted)

		total := 0.0
		below := 0
		for _, score := range sorted {
			total += score
			if score < threshold {
				below++
			}
		}

		stats = append(stats, DimensionStat{
			Key:                 fmt.Sprintf("D%d", i+1),
			Mean:                total / float64(len(sorted)),
			P25:                 nearestRank(sorted, 0.25),
			P75:                 nearestRank(sorted, 0.75),
			BelowThresholdCount: below,
		})
	}
	return stats
}

// SortDimensionStatsByMean orders stats ascending by mean, weakest first.
func SortDimensionStatsByMean(stats []DimensionStat) []DimensionStat {
	sorted := append([]DimensionStat(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Mean < sorted[j].Mean
	})
	return sorted
}

func nearestRank(sorted []float64, quantile float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(quantile * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
