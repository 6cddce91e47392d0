package service

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// TimeRange narrows a snapshot to submissions within a trailing window.
type TimeRange string

const (
	// TimeRangeWeek keeps submissions from the last 7 days, inclusive.
	TimeRangeWeek TimeRange = "7d"
	// TimeRangeMonth keeps submissions from the last 30 days, inclusive.
	TimeRangeMonth TimeRange = "30d"
	// TimeRangeAll applies no time filter.
	TimeRangeAll TimeRange = "all"
)

// IsValid reports whether the range is one of the supported windows.
func (r TimeRange) IsValid() bool {
	return r == TimeRangeWeek || r == TimeRangeMonth || r == TimeRangeAll
}

// TaskFilterAll selects submissions across every task.
const TaskFilterAll = "all"

// DefaultRecentLimit caps the recent-activity list in a snapshot.
const DefaultRecentLimit = 5

// ScoreBucket is one fixed band of the snapshot score distribution. Bounds
// are half-open: a submission lands in the bucket when Min <= score < Max.
type ScoreBucket struct {
	Label string
	Min   float64
	Max   float64
}

// ScoreBuckets returns the four fixed distribution bands, lowest first. The
// first band is unbounded below and the final band unbounded above, so every
// score the grader reports lands in exactly one bucket.
func ScoreBuckets() []ScoreBucket {
	return []ScoreBucket{
		{Label: "0-59", Min: math.Inf(-1), Max: 60},
		{Label: "60-79", Min: 60, Max: 80},
		{Label: "80-89", Min: 80, Max: 90},
		{Label: "90-100", Min: 90, Max: -1},
	}
}

// Contains reports whether the score falls inside the bucket.
func (b ScoreBucket) Contains(score float64) bool {
	if score < b.Min {
		return false
	}
	if b.Max < 0 {
		return true
	}
	return score < b.Max
}

// Snapshot is the derived classroom analytics view. It is never persisted.
//
// The snapshot is built on two bases on purpose: the score distribution,
// average and dimension stats describe each student's current standing and
// therefore use only the latest submission per student, while
// TotalSubmissions and RecentSubmissions describe activity and count every
// attempt inside the filter.
type Snapshot struct {
	StudentCount      int
	TotalSubmissions  int
	AvgScore          float64
	ScoreDist         map[string]int
	BucketSubmissions map[string][]models.Submission
	RecentSubmissions []models.Submission
	DimensionStats    []DimensionStat
}

// SnapshotOptions tunes snapshot construction. Zero values select defaults.
type SnapshotOptions struct {
	RecentLimit        int
	DimensionThreshold float64
}

func (o SnapshotOptions) withDefaults() SnapshotOptions {
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	if o.DimensionThreshold <= 0 {
		o.DimensionThreshold = DefaultDimensionThreshold
	}
	return o
}

// BuildSnapshot aggregates graded submissions into a classroom snapshot.
//
// The function is pure: it reads only its arguments, uses the supplied clock
// for the time windows, and never errors. Empty input produces a zero-valued
// snapshot rather than NaN or nil maps, because a brand-new classroom must
// still render.
func BuildSnapshot(submissions []models.Submission, timeRange TimeRange, taskFilter string, now time.Time, opts SnapshotOptions) Snapshot {
	opts = opts.withDefaults()

	filtered := filterSubmissions(submissions, timeRange, taskFilter, now)
	final := LatestPerStudent(filtered)

	snapshot := Snapshot{
		StudentCount:      len(final),
		TotalSubmissions:  len(filtered),
		ScoreDist:         make(map[string]int, 4),
		BucketSubmissions: make(map[string][]models.Submission, 4),
	}

	buckets := ScoreBuckets()
	for _, bucket := range buckets {
		snapshot.ScoreDist[bucket.Label] = 0
		snapshot.BucketSubmissions[bucket.Label] = []models.Submission{}
	}

	total := 0.0
	for _, submission := range final {
		total += submission.TotalScore
		for _, bucket := range buckets {
			if bucket.Contains(submission.TotalScore) {
				snapshot.ScoreDist[bucket.Label]++
				snapshot.BucketSubmissions[bucket.Label] = append(snapshot.BucketSubmissions[bucket.Label], submission)
				break
			}
		}
	}

	if len(final) > 0 {
		snapshot.AvgScore = total / float64(len(final))
	}

	recent := append([]models.Submission(nil), filtered...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].SubmittedAt.After(recent[j].SubmittedAt)
	})
	if len(recent) > opts.RecentLimit {
		recent = recent[:opts.RecentLimit]
	}
	snapshot.RecentSubmissions = recent

	snapshot.DimensionStats = ComputeDimensionStats(final, opts.DimensionThreshold)

	return snapshot
}

// LatestPerStudent reduces submissions to the most recent one per student id,
// preserving the order in which each student first appears.
func LatestPerStudent(submissions []models.Submission) []models.Submission {
	latest := make(map[string]models.Submission, len(submissions))
	order := make([]string, 0, len(submissions))

	for _, submission := range submissions {
		current, seen := latest[submission.StudentID]
		if !seen {
			order = append(order, submission.StudentID)
			latest[submission.StudentID] = submission
			continue
		}
		if submission.SubmittedAt.After(current.SubmittedAt) {
			latest[submission.StudentID] = submission
		}
	}

	result := make([]models.Submission, 0, len(order))
	for _, studentID := range order {
		result = append(result, latest[studentID])
	}
	return result
}

func filterSubmissions(submissions []models.Submission, timeRange TimeRange, taskFilter string, now time.Time) []models.Submission {
	var cutoff time.Time
	switch timeRange {
	case TimeRangeWeek:
		cutoff = now.Add(-7 * 24 * time.Hour)
	case TimeRangeMonth:
		cutoff = now.Add(-30 * 24 * time.Hour)
	}

	filtered := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if !cutoff.IsZero() && submission.SubmittedAt.Before(cutoff) {
			continue
		}
		if taskFilter != "" && taskFilter != TaskFilterAll {
			if strconv.FormatUint(uint64(submission.TaskID), 10) != taskFilter {
				continue
			}
		}
		filtered = append(filtered, submission)
	}
	return filtered
}
