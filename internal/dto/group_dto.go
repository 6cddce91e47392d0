package dto

import (
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// GroupCreateRequest captures manual group creation payloads.
type GroupCreateRequest struct {
	ClassName  string                 `json:"class_name" validate:"required,min=1"`
	Name       string                 `json:"name" validate:"required,min=1"`
	StudentIDs []string               `json:"student_ids"`
	Meta       map[string]interface{} `json:"meta"`
}

// GroupUpdateMembersRequest replaces a group's membership wholesale.
type GroupUpdateMembersRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required"`
}

// ScoreRangeRequest defines one auto-group score tier.
type ScoreRangeRequest struct {
	Min  float64 `json:"min" validate:"gte=0"`
	Max  float64 `json:"max" validate:"gt=0"`
	Name string  `json:"name" validate:"required,min=1"`
}

// AutoGroupRequest asks the engine to derive score-tier groups for an
// assignment's resolved submission set.
type AutoGroupRequest struct {
	AssignmentID string              `json:"assignment_id" validate:"required"`
	Ranges       []ScoreRangeRequest `json:"ranges" validate:"required,min=1,dive"`
}

// GroupFromBucketRequest creates a group from one snapshot distribution
// bucket, re-deriving the bucket with the same filters the snapshot used.
type GroupFromBucketRequest struct {
	Label      string `json:"label" validate:"required"`
	TimeRange  string `json:"time_range" validate:"omitempty,oneof=7d 30d all"`
	TaskFilter string `json:"task_filter"`
}

// GroupResponse serializes a student group.
type GroupResponse struct {
	ID         string                 `json:"id"`
	TeacherID  uint                   `json:"teacher_id"`
	ClassName  string                 `json:"class_name"`
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	StudentIDs []string               `json:"student_ids"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// GroupDetailResponse augments a group with roster reconciliation: members
// whose current class no longer matches the group's class, or who are gone
// from the roster entirely, are stale but intentionally retained.
type GroupDetailResponse struct {
	GroupResponse
	StaleMemberIDs []string `json:"stale_member_ids"`
}

// GroupMembersResponse reports the outcome of a membership replacement.
type GroupMembersResponse struct {
	GroupResponse
	MissingMemberIDs []string `json:"missing_member_ids"`
}

// CascadeStepResponse serializes one step of a cascading mutation.
type CascadeStepResponse struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ClassDeleteResponse reports the per-step outcome of a class deletion.
// Partial is true when some steps failed after others succeeded; nothing is
// rolled back in that case and the caller should refresh and reconcile.
type ClassDeleteResponse struct {
	ClassName     string                `json:"class_name"`
	Steps         []CascadeStepResponse `json:"steps"`
	GroupsDeleted int                   `json:"groups_deleted"`
	StudentsMoved int                   `json:"students_moved"`
	Partial       bool                  `json:"partial"`
}

// NewGroupResponse converts a group model into a DTO.
func NewGroupResponse(model models.StudentGroup) GroupResponse {
	return GroupResponse{
		ID:         model.ID,
		TeacherID:  model.TeacherID,
		ClassName:  model.ClassName,
		Name:       model.Name,
		Type:       string(model.Type),
		StudentIDs: model.Members(),
		Meta:       model.Meta,
		CreatedAt:  model.CreatedAt,
	}
}

// NewGroupResponseSlice converts group models into DTOs.
func NewGroupResponseSlice(groups []models.StudentGroup) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, NewGroupResponse(group))
	}
	return responses
}
