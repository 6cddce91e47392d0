package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advisio/advisio-api/internal/dto"
	"github.com/advisio/advisio-api/internal/models"
	"github.com/advisio/advisio-api/internal/repository"
)

type stubActivityLogRepo struct {
	created []models.ActivityLog
	listed  []models.ActivityLog
	total   int64
}

func (s *stubActivityLogRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *entry)
	return nil
}

func (s *stubActivityLogRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return s.listed, s.total, nil
}

func TestActivityRecordNormalizesAndMasksMetadata(t *testing.T) {
	repo := &stubActivityLogRepo{}
	svc := NewActivityService(repo, testLogger())

	resp, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    7,
		ActorRole:  " Teacher ",
		Action:     " Group.Create ",
		EntityType: "Group",
		EntityID:   "g1",
		Metadata: map[string]interface{}{
			"class_name":    "10A",
			"student_email": "alex@example.com",
			"AuthToken":     "secret",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "group.create", resp.Action)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	require.Equal(t, "teacher", stored.ActorRole)
	require.Equal(t, "group", stored.EntityType)
	require.Equal(t, "10A", stored.Metadata["class_name"])
	require.Equal(t, "***", stored.Metadata["student_email"])
	require.Equal(t, "***", stored.Metadata["AuthToken"])
}

func TestActivityRecordDefaultsMissingRoleToSystem(t *testing.T) {
	repo := &stubActivityLogRepo{}
	svc := NewActivityService(repo, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{Action: "class.delete", EntityType: "class"})
	require.NoError(t, err)
	require.Equal(t, "system", repo.created[0].ActorRole)
}

func TestActivityRecordRequiresActionAndEntityType(t *testing.T) {
	repo := &stubActivityLogRepo{}
	svc := NewActivityService(repo, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "group"})
	require.Error(t, err)

	_, err = svc.Record(context.Background(), ActivityEntry{Action: "group.create", EntityType: "  "})
	require.Error(t, err)
	require.Empty(t, repo.created)
}

func TestActivityListComputesPagination(t *testing.T) {
	repo := &stubActivityLogRepo{
		listed: []models.ActivityLog{{ID: 1, Action: "group.create"}, {ID: 2, Action: "group.delete"}},
		total:  7,
	}
	svc := NewActivityService(repo, testLogger())

	result, err := svc.List(context.Background(), dto.ActivityListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, 2, result.Pagination.Page)
	require.Equal(t, int64(7), result.Pagination.TotalItems)
	require.Equal(t, 4, result.Pagination.TotalPages)
}

func TestActivityListZeroPageSizeSinglePage(t *testing.T) {
	repo := &stubActivityLogRepo{total: 3}
	svc := NewActivityService(repo, testLogger())

	result, err := svc.List(context.Background(), dto.ActivityListRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Pagination.Page)
	require.Equal(t, 1, result.Pagination.TotalPages)
}
