package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/advisio/advisio-api/internal/models"
)

func TestGroupRepositoryListFiltersByClassAndMembership(t *testing.T) {
	db := setupTestDB(t, &models.StudentGroup{})
	repo := NewGroupRepository(db)

	groups := []models.StudentGroup{
		{ID: "g1", TeacherID: 1, ClassName: "10A", Name: "Advanced", Type: models.GroupTypeManual, StudentIDs: membersJSON("s1", "s2")},
		{ID: "g2", TeacherID: 1, ClassName: "10A", Name: "Basic", Type: models.GroupTypeManual, StudentIDs: membersJSON("s3")},
		{ID: "g3", TeacherID: 2, ClassName: "10B", Name: "Remedial", Type: models.GroupTypeAutoScoreBucket, StudentIDs: membersJSON("s1")},
	}
	for i := range groups {
		require.NoError(t, repo.Create(context.Background(), &groups[i]))
	}

	className := "10A"
	listed, err := repo.List(context.Background(), GroupFilter{ClassName: &className})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	studentID := "s1"
	listed, err = repo.List(context.Background(), GroupFilter{ClassName: &className, StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "g1", listed[0].ID)

	// membership filter alone spans classes
	listed, err = repo.List(context.Background(), GroupFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	teacherID := uint(2)
	listed, err = repo.List(context.Background(), GroupFilter{TeacherID: &teacherID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "g3", listed[0].ID)
}

func TestGroupRepositoryGetUpdateDelete(t *testing.T) {
	db := setupTestDB(t, &models.StudentGroup{})
	repo := NewGroupRepository(db)

	group := models.StudentGroup{ID: "g1", TeacherID: 1, ClassName: "10A", Name: "Advanced", Type: models.GroupTypeManual, StudentIDs: membersJSON("s1")}
	require.NoError(t, repo.Create(context.Background(), &group))

	fetched, err := repo.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, []string{"s1"}, fetched.Members())

	fetched.StudentIDs = membersJSON("s1", "s2")
	require.NoError(t, repo.Update(context.Background(), &fetched))

	fetched, err = repo.GetByID(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, fetched.Members())

	require.NoError(t, repo.Delete(context.Background(), "g1"))

	_, err = repo.GetByID(context.Background(), "g1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGroupRepositoryDeleteMissingGroup(t *testing.T) {
	db := setupTestDB(t, &models.StudentGroup{})
	repo := NewGroupRepository(db)

	err := repo.Delete(context.Background(), "nope")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func membersJSON(ids ...string) datatypes.JSON {
	raw, _ := json.Marshal(ids)
	return datatypes.JSON(raw)
}

func setupTestDB(t *testing.T, migrations ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrations...))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	})

	return db
}
