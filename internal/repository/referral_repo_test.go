package repository

import (
	"testing"

	"rewardly/internal/models"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCode_SurfacesStoreErrors(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.ReferralCode{}))
	repo := NewReferralRepository(db)
	user := createUser(t, db, "alice", 0)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// A store failure is not a code collision; it must come back as-is
	// instead of burning retries and masquerading as exhausted codes.
	_, err = repo.GetOrCreateCode(user.ID)
	require.Error(t, err)
	require.ErrorContains(t, err, "database is closed")
}
