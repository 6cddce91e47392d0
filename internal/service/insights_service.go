package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/observability"
	"github.com/advisio/advisio-api/internal/repository"
)

// InsightsService aggregates graded submissions into classroom snapshots.
type InsightsService interface {
	GetSnapshot(ctx context.Context, teacherID uint, req dto.InsightsRequest) (dto.InsightsResponse, error)
}

// InsightsConfig tunes snapshot construction for the service.
type InsightsConfig struct {
	RecentLimit        int
	DimensionThreshold float64
}

type insightsService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	cfg         InsightsConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// NewInsightsService constructs the insights service.
func NewInsightsService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	cache *redis.Client,
	ttl time.Duration,
	cfg InsightsConfig,
	logger zerolog.Logger,
) InsightsService {
	return &insightsService{
		submissions: submissions,
		assignments: assignments,
		cache:       cache,
		cacheTTL:    ttl,
		cfg:         cfg,
		logger:      logger.With().Str("component", "insights_service").Logger(),
		now:         time.Now,
	}
}

func (s *insightsService) GetSnapshot(ctx context.Context, teacherID uint, req dto.InsightsRequest) (dto.InsightsResponse, error) {
	tracer := otel.Tracer("github.com/advisio/advisio-api/internal/service/insights")
	ctx, span := tracer.Start(ctx, "insights.snapshot")
	defer span.End()

	timeRange := TimeRange(req.TimeRange)
	if req.TimeRange == "" {
		timeRange = TimeRangeAll
	}
	if !timeRange.IsValid() {
		return dto.InsightsResponse{}, &ValidationError{Field: "time_range", Reason: "must be 7d, 30d or all"}
	}

	taskFilter := req.TaskFilter
	if taskFilter == "" {
		taskFilter = TaskFilterAll
	}

	cacheKey := fmt.Sprintf("insights:%d:%s:%s:%s", teacherID, timeRange, taskFilter, req.AssignmentID)
	span.SetAttributes(attribute.String("insights.cache_key", cacheKey))

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.InsightsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("insights.cache_hit", true))
				observability.InsightsCache().WithLabelValues("hit").Inc()
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read insights cache")
			span.RecordError(err)
		}
		observability.InsightsCache().WithLabelValues("miss").Inc()
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TeacherID: &teacherID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_submissions_failed")
		return dto.InsightsResponse{}, err
	}

	if req.AssignmentID != "" {
		assignment, err := s.assignments.GetByID(ctx, req.AssignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.InsightsResponse{}, ErrAssignmentNotFound
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "assignment_lookup_failed")
			return dto.InsightsResponse{}, err
		}
		submissions = ResolveScope(assignment, submissions)
	}

	snapshot := BuildSnapshot(submissions, timeRange, taskFilter, s.now(), SnapshotOptions{
		RecentLimit:        s.cfg.RecentLimit,
		DimensionThreshold: s.cfg.DimensionThreshold,
	})
	response := newInsightsResponse(snapshot)

	span.SetAttributes(
		attribute.Int("insights.student_count", snapshot.StudentCount),
		attribute.Int("insights.total_submissions", snapshot.TotalSubmissions),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store insights cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func newInsightsResponse(snapshot Snapshot) dto.InsightsResponse {
	buckets := make(map[string][]dto.SubmissionLite, len(snapshot.BucketSubmissions))
	for label, submissions := range snapshot.BucketSubmissions {
		buckets[label] = dto.NewSubmissionLiteSlice(submissions)
	}

	stats := make([]dto.DimensionStatResponse, 0, len(snapshot.DimensionStats))
	for _, stat := range snapshot.DimensionStats {
		stats = append(stats, dto.DimensionStatResponse{
			Key:                 stat.Key,
			Mean:                stat.Mean,
			P25:                 stat.P25,
			P75:                 stat.P75,
			BelowThresholdCount: stat.BelowThresholdCount,
		})
	}

	return dto.InsightsResponse{
		StudentCount:      snapshot.StudentCount,
		TotalSubmissions:  snapshot.TotalSubmissions,
		AvgScore:          snapshot.AvgScore,
		ScoreDist:         snapshot.ScoreDist,
		Buckets:           buckets,
		RecentSubmissions: dto.NewSubmissionLiteSlice(snapshot.RecentSubmissions),
		DimensionStats:    stats,
	}
}
