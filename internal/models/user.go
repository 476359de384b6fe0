package models

import (
	"time"

	"rewardly/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	Points       int64          `gorm:"not null;default:0" json:"points"`   // never negative; mutated only via AccountRepository
	Tier         string         `gorm:"size:20;not null;default:'FREE'" json:"tier"`
	Status       string         `gorm:"size:20;not null;default:'NORMAL'" json:"status"` // NORMAL | INFLUENCER
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool      { return u.Role == domain.RoleAdmin }
func (u *User) IsInfluencer() bool { return u.Status == domain.StatusInfluencer }
