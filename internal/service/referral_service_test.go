package service

import (
	"strings"
	"sync"
	"testing"

	"rewardly/internal/domain"
	"rewardly/internal/models"
	"rewardly/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCode_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	user := createUser(t, db, "alice", 0)

	first, err := svc.GetOrCreateCode(user.ID)
	require.NoError(t, err)
	require.Len(t, first.Code, 8)

	second, err := svc.GetOrCreateCode(user.ID)
	require.NoError(t, err)
	require.Equal(t, first.Code, second.Code)

	var count int64
	require.NoError(t, db.Model(&models.ReferralCode{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestApplyCode_InvalidCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	user := createUser(t, db, "bob", 0)

	_, err := svc.ApplyCode(user.ID, "NOPE1234")
	require.ErrorIs(t, err, domain.ErrInvalidCode)
	_, err = svc.ApplyCode(user.ID, "   ")
	require.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestApplyCode_SelfReferral(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	user := createUser(t, db, "alice", 0)

	code, err := svc.GetOrCreateCode(user.ID)
	require.NoError(t, err)

	_, err = svc.ApplyCode(user.ID, code.Code)
	require.ErrorIs(t, err, domain.ErrSelfReferral)
}

func TestApplyCode_InfluencerMultiplier(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	require.NoError(t, db.Model(alice).Update("status", domain.StatusInfluencer).Error)

	code, err := svc.GetOrCreateCode(alice.ID)
	require.NoError(t, err)

	// Base bonus 10, influencer multiplier 2: referrer gets 20, referred 10.
	res, err := svc.ApplyCode(bob.ID, code.Code)
	require.NoError(t, err)
	require.Equal(t, alice.ID, res.ReferrerID)
	require.EqualValues(t, 10, res.PointsEarned)
	require.EqualValues(t, 10, res.TotalPoints)
	require.EqualValues(t, 20, balanceOf(t, db, alice.ID))
	require.EqualValues(t, 10, balanceOf(t, db, bob.ID))

	// One referral per person, ever: any further code is rejected.
	carol := createUser(t, db, "carol", 0)
	carolCode, err := svc.GetOrCreateCode(carol.ID)
	require.NoError(t, err)
	_, err = svc.ApplyCode(bob.ID, carolCode.Code)
	require.ErrorIs(t, err, domain.ErrAlreadyReferred)
	require.EqualValues(t, 10, balanceOf(t, db, bob.ID))
	require.EqualValues(t, 0, balanceOf(t, db, carol.ID))
}

func TestApplyCode_ConcurrentSingleApplication(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	code, err := svc.GetOrCreateCode(alice.ID)
	require.NoError(t, err)

	start := make(chan struct{})
	errs := make([]error, 8)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.ApplyCode(bob.ID, code.Code)
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, domain.ErrAlreadyReferred)
	}
	require.Equal(t, 1, successes)

	var apps int64
	require.NoError(t, db.Model(&models.ReferralApplication{}).
		Where("referred_user_id = ?", bob.ID).Count(&apps).Error)
	require.EqualValues(t, 1, apps)

	// Both sides credited exactly once.
	require.EqualValues(t, 10, balanceOf(t, db, alice.ID))
	require.EqualValues(t, 10, balanceOf(t, db, bob.ID))
}

func TestApplyCode_NormalBonusForBothSides(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)

	code, err := svc.GetOrCreateCode(alice.ID)
	require.NoError(t, err)

	_, err = svc.ApplyCode(bob.ID, code.Code)
	require.NoError(t, err)
	require.EqualValues(t, 10, balanceOf(t, db, alice.ID))
	require.EqualValues(t, 10, balanceOf(t, db, bob.ID))

	var app models.ReferralApplication
	require.NoError(t, db.Where("referred_user_id = ?", bob.ID).First(&app).Error)
	require.Equal(t, alice.ID, app.ReferrerID)
	require.True(t, app.PointsAwarded)
	require.Equal(t, code.Code, app.CodeUsed)
}

func TestApplyCode_NormalizesInput(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)

	code, err := svc.GetOrCreateCode(alice.ID)
	require.NoError(t, err)

	lowered := "  " + strings.ToLower(code.Code) + "  "
	res, err := svc.ApplyCode(bob.ID, lowered)
	require.NoError(t, err)
	require.Equal(t, alice.ID, res.ReferrerID)
}

func TestApplyCode_ConfigurableBonus(t *testing.T) {
	db := setupTestDB(t)
	svc := newReferralService(db)
	settings := repository.NewSettingRepository(db)
	require.NoError(t, settings.Set(domain.SettingReferralBonusPoints, "25"))
	require.NoError(t, settings.Set(domain.SettingReferralInfluencerMultiplier, "3"))

	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	require.NoError(t, db.Model(alice).Update("status", domain.StatusInfluencer).Error)

	code, err := svc.GetOrCreateCode(alice.ID)
	require.NoError(t, err)

	res, err := svc.ApplyCode(bob.ID, code.Code)
	require.NoError(t, err)
	require.EqualValues(t, 25, res.PointsEarned)
	require.EqualValues(t, 75, balanceOf(t, db, alice.ID))
	require.EqualValues(t, 25, balanceOf(t, db, bob.ID))
}
