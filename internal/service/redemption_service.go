package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"rewardly/internal/domain"
	"rewardly/internal/models"
	"rewardly/internal/repository"

	"gorm.io/gorm"
)

// RedemptionService exchanges points for rewards. Stock decrement and
// balance debit are both guarded UPDATEs inside one transaction: two
// redeemers racing on the last unit cannot both succeed, and a failed debit
// rolls the stock decrement back.
type RedemptionService struct {
	db       *gorm.DB
	rewards  *repository.RewardRepository
	accounts *repository.AccountRepository
}

func NewRedemptionService(db *gorm.DB, rewards *repository.RewardRepository, accounts *repository.AccountRepository) *RedemptionService {
	return &RedemptionService{db: db, rewards: rewards, accounts: accounts}
}

type RedemptionResult struct {
	RedemptionID     uint  `json:"redemption_id"`
	PointsSpent      int64 `json:"points_spent"`
	RemainingBalance int64 `json:"remaining_balance"`
}

func (s *RedemptionService) Redeem(userID, rewardID uint) (*RedemptionResult, error) {
	out := &RedemptionResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.First(&reward, rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if !reward.Active {
			return domain.ErrRewardInactive
		}
		if reward.Quantity != nil {
			if *reward.Quantity <= 0 {
				return domain.ErrOutOfStock
			}
			// quantity > 0 guard closes the race on the last unit.
			res := tx.Model(&models.Reward{}).
				Where("id = ? AND quantity > 0", rewardID).
				UpdateColumn("quantity", gorm.Expr("quantity - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrOutOfStock
			}
		}
		red := models.RewardRedemption{
			UserID:      userID,
			RewardID:    rewardID,
			PointsSpent: reward.PointsCost,
			Status:      domain.RedemptionPending,
			RedeemedAt:  time.Now(),
		}
		if err := tx.Create(&red).Error; err != nil {
			return err
		}
		if err := s.accounts.Debit(tx, userID, reward.PointsCost, domain.PointsTxRedemption,
			fmt.Sprintf("redemption_%d", red.ID)); err != nil {
			return err
		}
		var u models.User
		if err := tx.Select("points").First(&u, userID).Error; err != nil {
			return err
		}
		out.RedemptionID = red.ID
		out.PointsSpent = reward.PointsCost
		out.RemainingBalance = u.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[redeem] user %d redeemed reward %d for %d points", userID, rewardID, out.PointsSpent)
	return out, nil
}
