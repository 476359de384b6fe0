package models

import (
	"time"

	"gorm.io/gorm"
)

// PointsTransaction records every balance mutation for account history.
type PointsTransaction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Amount    int64          `gorm:"not null" json:"amount"`             // positive = credit, negative = debit
	Type      string         `gorm:"size:30;not null;index" json:"type"` // TASK_REWARD, REWARD_REDEMPTION, REFERRAL_BONUS
	Reference string         `gorm:"size:128" json:"reference"`          // e.g. assignment_id, redemption_id
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsTransaction) TableName() string { return "points_transactions" }
