package models

import (
	"time"

	"gorm.io/gorm"
)

// Reward is a redeemable item. Quantity is the remaining stock; nil means
// unlimited. Only the redemption engine decrements it.
type Reward struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PointsCost  int64          `gorm:"not null" json:"points_cost"`
	Quantity    *int64         `json:"quantity,omitempty"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Reward) TableName() string { return "rewards" }
