package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
)

// ScoreRange is one normalized auto-group tier over total scores. Bounds are
// half-open except the final tier, which also includes a score equal to its
// upper bound so a perfect run is never dropped.
type ScoreRange struct {
	Min  float64
	Max  float64
	Name string
}

// GroupService implements the grouping engine: manual groups, generated
// score tiers, membership replacement and the delete-class cascade.
type GroupService interface {
	List(ctx context.Context, teacherID uint, className, studentID string) ([]dto.GroupResponse, error)
	Get(ctx context.Context, groupID string) (dto.GroupDetailResponse, error)
	Create(ctx context.Context, actor ActivityActor, req dto.GroupCreateRequest) (dto.GroupResponse, error)
	UpdateMembers(ctx context.Context, actor ActivityActor, groupID string, req dto.GroupUpdateMembersRequest) (dto.GroupMembersResponse, error)
	Delete(ctx context.Context, actor ActivityActor, groupID string) error
	DeleteClass(ctx context.Context, actor ActivityActor, className string) (dto.ClassDeleteResponse, error)
	GenerateAutoGroups(ctx context.Context, actor ActivityActor, req dto.AutoGroupRequest) ([]dto.GroupResponse, error)
	CreateFromBucket(ctx context.Context, actor ActivityActor, req dto.GroupFromBucketRequest) (dto.GroupResponse, error)
}

type groupService struct {
	groups      repository.GroupRepository
	students    repository.StudentRepository
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
	newID       func() string
}

// NewGroupService constructs the grouping engine.
func NewGroupService(
	groups repository.GroupRepository,
	students repository.StudentRepository,
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	events EventPublisher,
	logger zerolog.Logger,
) GroupService {
	return &groupService{
		groups:      groups,
		students:    students,
		submissions: submissions,
		assignments: assignments,
		validator:   validate,
		activity:    activity,
		events:      events,
		logger:      logger.With().Str("component", "group_service").Logger(),
		tracer:      otel.Tracer("github.com/advisio/advisio-api/internal/service/group"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *groupService) List(ctx context.Context, teacherID uint, className, studentID string) ([]dto.GroupResponse, error) {
	filter := repository.GroupFilter{TeacherID: &teacherID}
	if className = strings.TrimSpace(className); className != "" {
		filter.ClassName = &className
	}
	if studentID = strings.TrimSpace(studentID); studentID != "" {
		filter.StudentID = &studentID
	}

	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewGroupResponseSlice(groups), nil
}

func (s *groupService) Get(ctx context.Context, groupID string) (dto.GroupDetailResponse, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return dto.GroupDetailResponse{}, err
	}

	roster, err := s.students.List(ctx, repository.StudentFilter{Role: models.RoleStudent})
	if err != nil {
		return dto.GroupDetailResponse{}, err
	}

	classOf := make(map[string]string, len(roster))
	for _, student := range roster {
		classOf[student.ID] = student.ClassName
	}

	// Members whose current class diverged from the group's class, or who
	// left the roster, are stale. They stay in the stored set regardless.
	stale := make([]string, 0)
	for _, memberID := range group.Members() {
		current, ok := classOf[memberID]
		if !ok || current != group.ClassName {
			stale = append(stale, memberID)
		}
	}

	return dto.GroupDetailResponse{
		GroupResponse:  dto.NewGroupResponse(group),
		StaleMemberIDs: stale,
	}, nil
}

func (s *groupService) Create(ctx context.Context, actor ActivityActor, req dto.GroupCreateRequest) (dto.GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.GroupResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	className := strings.TrimSpace(req.ClassName)
	if name == "" {
		return dto.GroupResponse{}, &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if className == "" {
		// The "unassigned" pseudo-view is never a valid target for groups.
		return dto.GroupResponse{}, &ValidationError{Field: "class_name", Reason: "must not be blank"}
	}

	group := models.StudentGroup{
		ID:         s.newID(),
		TeacherID:  actor.ID,
		ClassName:  className,
		Name:       name,
		Type:       models.GroupTypeManual,
		StudentIDs: encodeStringSet(req.StudentIDs),
		Meta:       sanitizeMetadata(req.Meta),
		CreatedAt:  s.now(),
	}

	if err := s.groups.Create(ctx, &group); err != nil {
		return dto.GroupResponse{}, err
	}

	s.recordActivity(ctx, actor, "group.created", "group", group.ID, map[string]interface{}{
		"class_name": group.ClassName,
		"group_type": string(group.Type),
		"members":    len(group.Members()),
	})
	s.events.Publish("group.created", dto.NewGroupResponse(group))

	return dto.NewGroupResponse(group), nil
}

func (s *groupService) UpdateMembers(ctx context.Context, actor ActivityActor, groupID string, req dto.GroupUpdateMembersRequest) (dto.GroupMembersResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.GroupMembersResponse{}, err
	}

	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return dto.GroupMembersResponse{}, err
	}

	members := dedupeStrings(req.StudentIDs)

	roster, err := s.students.List(ctx, repository.StudentFilter{
		Role:      models.RoleStudent,
		ClassName: &group.ClassName,
	})
	if err != nil {
		return dto.GroupMembersResponse{}, err
	}

	visible := make(map[string]struct{}, len(roster))
	for _, student := range roster {
		visible[student.ID] = struct{}{}
	}

	// Members outside the visible class roster are flagged but retained:
	// students who changed class keep their group history.
	missing := make([]string, 0)
	for _, memberID := range members {
		if _, ok := visible[memberID]; !ok {
			missing = append(missing, memberID)
		}
	}
	if len(missing) > 0 {
		s.logger.Warn().
			Str("group_id", group.ID).
			Strs("missing_members", missing).
			Msg("group membership includes students outside the class roster")
	}

	group.StudentIDs = encodeStringSet(members)
	if err := s.groups.Update(ctx, &group); err != nil {
		return dto.GroupMembersResponse{}, err
	}

	s.recordActivity(ctx, actor, "group.members_replaced", "group", group.ID, map[string]interface{}{
		"members": len(members),
		"missing": len(missing),
	})

	return dto.GroupMembersResponse{
		GroupResponse:    dto.NewGroupResponse(group),
		MissingMemberIDs: missing,
	}, nil
}

func (s *groupService) Delete(ctx context.Context, actor ActivityActor, groupID string) error {
	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, "group.deleted", "group", groupID, nil)
	return nil
}

func (s *groupService) DeleteClass(ctx context.Context, actor ActivityActor, className string) (dto.ClassDeleteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "group.delete_class", trace.WithAttributes(
		attribute.String("class_name", className),
	))
	defer span.End()

	className = strings.TrimSpace(className)
	if className == "" {
		return dto.ClassDeleteResponse{}, &ValidationError{Field: "class_name", Reason: "must not be blank"}
	}

	groups, err := s.groups.List(ctx, repository.GroupFilter{ClassName: &className})
	if err != nil {
		return dto.ClassDeleteResponse{}, err
	}

	students, err := s.students.List(ctx, repository.StudentFilter{ClassName: &className})
	if err != nil {
		return dto.ClassDeleteResponse{}, err
	}

	// Sequential best-effort batch: each sub-operation stands alone and a
	// failure does not roll back what already ran.
	cascade := NewCascade("delete class " + className)
	groupsDeleted := 0
	for _, group := range groups {
		id := group.ID
		cascade.Run(fmt.Sprintf("delete group %s", id), func() error {
			err := s.groups.Delete(ctx, id)
			if err == nil {
				groupsDeleted++
			}
			return err
		})
	}

	studentsMoved := 0
	for _, student := range students {
		id := student.ID
		cascade.Run(fmt.Sprintf("unassign student %s", id), func() error {
			err := s.students.UpdateClass(ctx, id, "")
			if err == nil {
				studentsMoved++
			}
			return err
		})
	}

	response := dto.ClassDeleteResponse{
		ClassName:     className,
		Steps:         cascadeStepResponses(cascade.Steps),
		GroupsDeleted: groupsDeleted,
		StudentsMoved: studentsMoved,
		Partial:       cascade.Failed(),
	}

	s.recordActivity(ctx, actor, "class.deleted", "class", className, map[string]interface{}{
		"groups_deleted": groupsDeleted,
		"students_moved": studentsMoved,
		"partial":        cascade.Failed(),
	})

	return response, cascade.Err()
}

func (s *groupService) GenerateAutoGroups(ctx context.Context, actor ActivityActor, req dto.AutoGroupRequest) ([]dto.GroupResponse, error) {
	ctx, span := s.tracer.Start(ctx, "group.generate_auto", trace.WithAttributes(
		attribute.String("assignment_id", req.AssignmentID),
		attribute.Int("range_count", len(req.Ranges)),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	ranges, err := NormalizeScoreRanges(req.Ranges)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ResolutionError{Context: "assignment " + req.AssignmentID, Err: ErrAssignmentNotFound}
		}
		return nil, &ResolutionError{Context: "assignment " + req.AssignmentID, Err: err}
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TeacherID: &assignment.TeacherID})
	if err != nil {
		return nil, err
	}

	scoped := ResolveScope(assignment, submissions)
	final := LatestPerStudent(scoped)

	tiers := PartitionByScore(final, ranges)

	created := make([]dto.GroupResponse, 0, len(tiers))
	cascade := NewCascade("generate auto groups for assignment " + assignment.ID)
	for i, tier := range tiers {
		if len(tier) == 0 {
			// An empty tier produces no group.
			continue
		}

		rng := ranges[i]
		group := models.StudentGroup{
			ID:         s.newID(),
			TeacherID:  assignment.TeacherID,
			ClassName:  assignment.ClassName,
			Name:       rng.Name,
			Type:       models.GroupTypeAutoScoreBucket,
			StudentIDs: encodeStringSet(studentIDsOf(tier)),
			Meta: datatypes.JSONMap{
				"assignment_id": assignment.ID,
				"range":         fmt.Sprintf("%g-%g", rng.Min, rng.Max),
				"source":        "auto_score_bucket",
			},
			CreatedAt: s.now(),
		}

		cascade.Run(fmt.Sprintf("create group %q", rng.Name), func() error {
			if err := s.groups.Create(ctx, &group); err != nil {
				return err
			}
			created = append(created, dto.NewGroupResponse(group))
			return nil
		})
	}

	s.recordActivity(ctx, actor, "group.auto_generated", "assignment", assignment.ID, map[string]interface{}{
		"groups_created": len(created),
		"ranges":         len(ranges),
	})
	for _, group := range created {
		s.events.Publish("group.created", group)
	}

	return created, cascade.Err()
}

func (s *groupService) CreateFromBucket(ctx context.Context, actor ActivityActor, req dto.GroupFromBucketRequest) (dto.GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.GroupResponse{}, err
	}

	timeRange := TimeRange(req.TimeRange)
	if req.TimeRange == "" {
		timeRange = TimeRangeAll
	}
	if !timeRange.IsValid() {
		return dto.GroupResponse{}, &ValidationError{Field: "time_range", Reason: "must be 7d, 30d or all"}
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{TeacherID: &actor.ID})
	if err != nil {
		return dto.GroupResponse{}, err
	}

	snapshot := BuildSnapshot(submissions, timeRange, req.TaskFilter, s.now(), SnapshotOptions{})
	bucket, ok := snapshot.BucketSubmissions[req.Label]
	if !ok {
		return dto.GroupResponse{}, &ValidationError{Field: "label", Reason: "unknown score bucket"}
	}
	if len(bucket) == 0 {
		return dto.GroupResponse{}, &ValidationError{Field: "label", Reason: "bucket has no students"}
	}

	// The bucket may span classes; the first submission's frozen class name
	// decides the group's class. A documented heuristic, not an error.
	primaryClass := bucket[0].ClassName

	group := models.StudentGroup{
		ID:         s.newID(),
		TeacherID:  actor.ID,
		ClassName:  primaryClass,
		Name:       fmt.Sprintf("%s - Score %s", primaryClass, req.Label),
		Type:       models.GroupTypeAutoScoreBucket,
		StudentIDs: encodeStringSet(studentIDsOf(bucket)),
		Meta: datatypes.JSONMap{
			"bucket": req.Label,
			"source": "snapshot_bucket",
		},
		CreatedAt: s.now(),
	}

	if err := s.groups.Create(ctx, &group); err != nil {
		return dto.GroupResponse{}, err
	}

	s.recordActivity(ctx, actor, "group.created", "group", group.ID, map[string]interface{}{
		"bucket":     req.Label,
		"class_name": primaryClass,
		"members":    len(group.Members()),
	})
	s.events.Publish("group.created", dto.NewGroupResponse(group))

	return dto.NewGroupResponse(group), nil
}

// NormalizeScoreRanges validates and normalizes tier definitions: names must
// be non-blank, bounds ascending, and a zero min inherits the previous max.
func NormalizeScoreRanges(requests []dto.ScoreRangeRequest) ([]ScoreRange, error) {
	if len(requests) == 0 {
		return nil, &ValidationError{Field: "ranges", Reason: "at least one range is required"}
	}

	ranges := make([]ScoreRange, 0, len(requests))
	for i, req := range requests {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, &ValidationError{Field: "ranges", Reason: fmt.Sprintf("range %d has a blank name", i+1)}
		}

		min := req.Min
		if min == 0 && i > 0 {
			min = ranges[i-1].Max
		}
		if req.Max <= min {
			return nil, &ValidationError{Field: "ranges", Reason: fmt.Sprintf("range %q max must exceed min", name)}
		}
		if i > 0 && min < ranges[i-1].Max {
			return nil, &ValidationError{Field: "ranges", Reason: "ranges must be ascending and non-overlapping"}
		}

		ranges = append(ranges, ScoreRange{Min: min, Max: req.Max, Name: name})
	}
	return ranges, nil
}

// PartitionByScore buckets submissions into the tiers. Each submission lands
// in at most one tier: bounds are half-open except the final tier, which also
// admits a score equal to its upper bound (the nominal maximum).
func PartitionByScore(submissions []models.Submission, ranges []ScoreRange) [][]models.Submission {
	tiers := make([][]models.Submission, len(ranges))
	for _, submission := range submissions {
		for i, rng := range ranges {
			last := i == len(ranges)-1
			if submission.TotalScore < rng.Min {
				continue
			}
			if submission.TotalScore < rng.Max || (last && submission.TotalScore == rng.Max) {
				tiers[i] = append(tiers[i], submission)
				break
			}
		}
	}
	return tiers
}

func (s *groupService) getGroup(ctx context.Context, groupID string) (models.StudentGroup, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentGroup{}, ErrGroupNotFound
		}
		return models.StudentGroup{}, err
	}
	return group, nil
}

func (s *groupService) recordActivity(ctx context.Context, actor ActivityActor, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	})
}

func studentIDsOf(submissions []models.Submission) []string {
	ids := make([]string, 0, len(submissions))
	for _, submission := range submissions {
		ids = append(ids, submission.StudentID)
	}
	return ids
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func encodeStringSet(values []string) datatypes.JSON {
	deduped := dedupeStrings(values)
	if deduped == nil {
		deduped = []string{}
	}
	data, _ := json.Marshal(deduped)
	return datatypes.JSON(data)
}

func cascadeStepResponses(steps []CascadeStep) []dto.CascadeStepResponse {
	responses := make([]dto.CascadeStepResponse, 0, len(steps))
	for _, step := range steps {
		response := dto.CascadeStepResponse{Name: step.Name, Success: step.Err == nil}
		if step.Err != nil {
			response.Error = step.Err.Error()
		}
		responses = append(responses, response)
	}
	return responses
}
