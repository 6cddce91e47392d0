package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/advisio/advisio-api/internal/models"
)

func TestActivityLogRepositoryListPaginatesNewestFirst(t *testing.T) {
	db := setupTestDB(t, &models.ActivityLog{})
	repo := NewActivityLogRepository(db)

	base := time.Now().Add(-time.Hour)
	actions := []string{"group.create", "group.delete", "submission.grade"}
	for i, action := range actions {
		entry := models.ActivityLog{
			ActorID:    1,
			ActorRole:  "teacher",
			Action:     action,
			EntityType: "group",
			Metadata:   datatypes.JSONMap{"seq": i},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), &entry))
	}

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, entries, 2)
	require.Equal(t, "submission.grade", entries[0].Action)
	require.Equal(t, "group.delete", entries[1].Action)

	entries, total, err = repo.List(context.Background(), ActivityLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, entries, 1)
	require.Equal(t, "group.create", entries[0].Action)
}

func TestActivityLogRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t, &models.ActivityLog{})
	repo := NewActivityLogRepository(db)

	seed := []models.ActivityLog{
		{ActorID: 1, ActorRole: "teacher", Action: "group.create", EntityType: "group"},
		{ActorID: 1, ActorRole: "teacher", Action: "submission.grade", EntityType: "submission"},
		{ActorID: 2, ActorRole: "admin", Action: "group.create", EntityType: "group"},
	}
	for i := range seed {
		require.NoError(t, repo.Create(context.Background(), &seed[i]))
	}

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{Action: "group.create", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, entries, 2)

	actorID := uint(2)
	entries, total, err = repo.List(context.Background(), ActivityLogFilter{ActorID: &actorID, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "admin", entries[0].ActorRole)

	entries, total, err = repo.List(context.Background(), ActivityLogFilter{EntityType: "submission", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "submission.grade", entries[0].Action)
}
