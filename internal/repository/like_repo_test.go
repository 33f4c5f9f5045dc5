package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/db"
	"github.com/emberly-app/emberly-backend/internal/repository"
)

// setupTestDB opens an isolated in-memory DB with the full schema.
// TranslateError is on, matching production, so unique violations surface
// as gorm.ErrDuplicatedKey.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(
		&db.User{}, &db.Like{}, &db.Match{}, &db.Notification{}, &db.ReferralCode{}, &db.Referral{},
	))
	return database
}

func seedUsers(t *testing.T, gdb *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		user := db.User{
			ID:           uint64(i),
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("u%d@test.com", i),
			PasswordHash: "x",
			Active:       true,
			Tier:         "Basic",
			Role:         "user",
		}
		require.NoError(t, gdb.Create(&user).Error)
	}
}

func TestLikeCreate_DuplicateOrderedPair(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Create(ctx, 1, 2))

	err := repo.Create(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// the reverse direction is an independent row
	require.NoError(t, repo.Create(ctx, 2, 1))

	var count int64
	require.NoError(t, gdb.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestLikeExists(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Create(ctx, 1, 2))

	exists, err := repo.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLikeDeletePair(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Create(ctx, 1, 2))
	require.NoError(t, repo.Create(ctx, 2, 1))

	require.NoError(t, repo.DeletePair(ctx, 1, 2))

	var count int64
	require.NoError(t, gdb.Model(&db.Like{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// absent rows are tolerated
	require.NoError(t, repo.DeletePair(ctx, 1, 2))
}

func TestLikeReceivedBy_Exclusions(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewLikeRepository(gdb)
	seedUsers(t, gdb, 5)

	// 2, 3, 4 like 1
	require.NoError(t, repo.Create(ctx, 2, 1))
	require.NoError(t, repo.Create(ctx, 3, 1))
	require.NoError(t, repo.Create(ctx, 4, 1))
	// 1 liked 3 back → excluded
	require.NoError(t, repo.Create(ctx, 1, 3))
	// 1 and 4 are matched → excluded
	require.NoError(t, gdb.Create(&db.Match{User1ID: 1, User2ID: 4}).Error)

	likes, err := repo.ReceivedBy(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, uint64(2), likes[0].ActorID)

	count, err := repo.CountReceivedBy(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestLikeReceivedBy_SkipsInactiveActors(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewLikeRepository(gdb)
	seedUsers(t, gdb, 3)

	require.NoError(t, repo.Create(ctx, 2, 1))
	require.NoError(t, repo.Create(ctx, 3, 1))
	require.NoError(t, gdb.Model(&db.User{}).Where("id = ?", 3).Update("active", false).Error)

	likes, err := repo.ReceivedBy(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, uint64(2), likes[0].ActorID)
}
