package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a promotional task users complete for points. Owned by admin
// tooling; the engine only reads it.
type Task struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Points           int64          `gorm:"not null" json:"points"`
	Active           bool           `gorm:"not null;default:true;index" json:"active"`
	RequiredMedia    bool           `gorm:"not null;default:false" json:"required_media"`
	VerificationType string         `gorm:"size:20;not null;default:'MANUAL'" json:"verification_type"` // AUTOMATIC | MANUAL
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }
