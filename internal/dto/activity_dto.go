package dto

import (
	"time"

	"github.com/advisio/advisio-api/internal/models"
)

// ActivityListRequest defines filters for retrieving activity logs.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	Action     string
	EntityType string
}

// ActivityResponse serializes activity log entries.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a paginated activity response.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewActivityResponse converts a model into an activity DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   entry.Metadata,
		CreatedAt:  entry.CreatedAt,
	}
}
