package repository

import (
	"rewardly/internal/models"

	"gorm.io/gorm"
)

type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) GetByID(id uint) (*models.Reward, error) {
	var rw models.Reward
	if err := r.db.First(&rw, id).Error; err != nil {
		return nil, err
	}
	return &rw, nil
}

func (r *RewardRepository) ListActive(limit, offset int) ([]models.Reward, error) {
	var list []models.Reward
	err := r.db.Where("active = ?", true).
		Order("points_cost ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *RewardRepository) ListRedemptionsByUser(userID uint, limit, offset int) ([]models.RewardRedemption, error) {
	var list []models.RewardRedemption
	err := r.db.Where("user_id = ?", userID).
		Preload("Reward").
		Order("redeemed_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
