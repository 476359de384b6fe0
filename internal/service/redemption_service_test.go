package service

import (
	"fmt"
	"sync"
	"testing"

	"rewardly/internal/domain"
	"rewardly/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createReward(t *testing.T, db *gorm.DB, cost int64, quantity *int64) *models.Reward {
	t.Helper()
	r := &models.Reward{
		Name:       "gift card",
		PointsCost: cost,
		Quantity:   quantity,
		Active:     true,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func qty(n int64) *int64 { return &n }

func TestRedeem_InsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	user := createUser(t, db, "alice", 40)
	reward := createReward(t, db, 50, qty(3))

	_, err := svc.Redeem(user.ID, reward.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Nothing partial: balance and stock both untouched.
	require.EqualValues(t, 40, balanceOf(t, db, user.ID))
	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, reward.ID).Error)
	require.EqualValues(t, 3, *reloaded.Quantity)
	var count int64
	require.NoError(t, db.Model(&models.RewardRedemption{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRedeem_LastUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	alice := createUser(t, db, "alice", 60)
	bob := createUser(t, db, "bob", 100)
	reward := createReward(t, db, 50, qty(1))

	res, err := svc.Redeem(alice.ID, reward.ID)
	require.NoError(t, err)
	require.EqualValues(t, 50, res.PointsSpent)
	require.EqualValues(t, 10, res.RemainingBalance)
	require.EqualValues(t, 10, balanceOf(t, db, alice.ID))

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, reward.ID).Error)
	require.EqualValues(t, 0, *reloaded.Quantity)

	// The unit is gone; the next redeemer loses deterministically.
	_, err = svc.Redeem(bob.ID, reward.ID)
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	require.EqualValues(t, 100, balanceOf(t, db, bob.ID))
}

func TestRedeem_ConcurrentLastUnit(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	reward := createReward(t, db, 50, qty(1))
	users := make([]*models.User, 8)
	for i := range users {
		users[i] = createUser(t, db, fmt.Sprintf("user%d", i), 100)
	}

	start := make(chan struct{})
	errs := make([]error, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Redeem(userID, reward.ID)
		}(i, u.ID)
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, domain.ErrOutOfStock)
	}
	require.Equal(t, 1, successes)

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, reward.ID).Error)
	require.EqualValues(t, 0, *reloaded.Quantity)

	var redemptions int64
	require.NoError(t, db.Model(&models.RewardRedemption{}).Count(&redemptions).Error)
	require.EqualValues(t, 1, redemptions)

	// Exactly one account paid.
	paid := 0
	for _, u := range users {
		switch balanceOf(t, db, u.ID) {
		case 50:
			paid++
		case 100:
		default:
			t.Fatalf("unexpected balance for user %d", u.ID)
		}
	}
	require.Equal(t, 1, paid)
}

func TestRedeem_InactiveReward(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	user := createUser(t, db, "alice", 100)
	reward := createReward(t, db, 50, nil)
	require.NoError(t, db.Model(reward).Update("active", false).Error)

	_, err := svc.Redeem(user.ID, reward.ID)
	require.ErrorIs(t, err, domain.ErrRewardInactive)
	require.EqualValues(t, 100, balanceOf(t, db, user.ID))
}

func TestRedeem_UnlimitedStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	user := createUser(t, db, "alice", 100)
	reward := createReward(t, db, 30, nil)

	for _, want := range []int64{70, 40, 10} {
		res, err := svc.Redeem(user.ID, reward.ID)
		require.NoError(t, err)
		require.EqualValues(t, want, res.RemainingBalance)
	}
	_, err := svc.Redeem(user.ID, reward.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestRedeem_RecordsRedemptionAndLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := newRedemptionService(db)
	user := createUser(t, db, "alice", 80)
	reward := createReward(t, db, 50, qty(5))

	res, err := svc.Redeem(user.ID, reward.ID)
	require.NoError(t, err)

	var red models.RewardRedemption
	require.NoError(t, db.First(&red, res.RedemptionID).Error)
	require.Equal(t, user.ID, red.UserID)
	require.Equal(t, reward.ID, red.RewardID)
	require.EqualValues(t, 50, red.PointsSpent)
	require.Equal(t, domain.RedemptionPending, red.Status)

	var ledger models.PointsTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&ledger).Error)
	require.EqualValues(t, -50, ledger.Amount)
	require.Equal(t, domain.PointsTxRedemption, ledger.Type)
}
