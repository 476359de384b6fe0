package service

import (
	"fmt"
	"strings"
	"testing"

	"rewardly/internal/domain"
	"rewardly/internal/models"
	"rewardly/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a per-test in-memory sqlite DB. The shared-cache name is
// derived from the test name so gorm's connection pool sees one database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Submission{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.ReferralCode{},
		&models.ReferralApplication{},
		&models.PointsTransaction{},
		&models.SystemSetting{},
	))
	return db
}

func newTaskService(db *gorm.DB) *TaskService {
	return NewTaskService(db, repository.NewTaskRepository(db), repository.NewAccountRepository(db))
}

func newRedemptionService(db *gorm.DB) *RedemptionService {
	return NewRedemptionService(db, repository.NewRewardRepository(db), repository.NewAccountRepository(db))
}

func newReferralService(db *gorm.DB) *ReferralService {
	return NewReferralService(db,
		repository.NewReferralRepository(db),
		repository.NewUserRepository(db),
		repository.NewAccountRepository(db),
		repository.NewSettingRepository(db))
}

func createUser(t *testing.T, db *gorm.DB, name string, points int64) *models.User {
	t.Helper()
	u := &models.User{
		Username: name,
		Email:    name + "@example.com",
		Role:     domain.RoleUser,
		Points:   points,
		Tier:     domain.TierFree,
		Status:   domain.StatusNormal,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTask(t *testing.T, db *gorm.DB, points int64, requiredMedia bool, verification string) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:            fmt.Sprintf("task-%d", points),
		Points:           points,
		Active:           true,
		RequiredMedia:    requiredMedia,
		VerificationType: verification,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, userID).Error)
	return u.Points
}
