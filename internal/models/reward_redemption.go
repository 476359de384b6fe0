package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardRedemption is created exactly once per successful redemption.
// Immutable afterwards except Status, which fulfillment tooling advances.
type RewardRedemption struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	RewardID    uint           `gorm:"not null;index" json:"reward_id"`
	PointsSpent int64          `gorm:"not null" json:"points_spent"`
	Status      string         `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	RedeemedAt  time.Time      `gorm:"not null" json:"redeemed_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Reward Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}

func (RewardRedemption) TableName() string { return "reward_redemptions" }
