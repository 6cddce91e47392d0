package dto

// InsightsRequest describes query string filters for the insights snapshot.
type InsightsRequest struct {
	TimeRange    string `query:"time_range" validate:"omitempty,oneof=7d 30d all"`
	TaskFilter   string `query:"task_filter"`
	AssignmentID string `query:"assignment_id"`
}

// DimensionStatResponse serializes per-dimension rubric statistics.
type DimensionStatResponse struct {
	Key                 string  `json:"key"`
	Mean                float64 `json:"mean"`
	P25                 float64 `json:"p25"`
	P75                 float64 `json:"p75"`
	BelowThresholdCount int     `json:"below_threshold_count"`
}

// InsightsResponse is the classroom analytics snapshot returned to teachers.
type InsightsResponse struct {
	StudentCount      int                         `json:"student_count"`
	TotalSubmissions  int                         `json:"total_submissions"`
	AvgScore          float64                     `json:"avg_score"`
	ScoreDist         map[string]int              `json:"score_dist"`
	Buckets           map[string][]SubmissionLite `json:"buckets"`
	RecentSubmissions []SubmissionLite            `json:"recent_submissions"`
	DimensionStats    []DimensionStatResponse     `json:"dimension_stats"`
	CacheHit          bool                        `json:"cache_hit"`
}
