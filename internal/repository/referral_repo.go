package repository

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"rewardly/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// generateReferralCode returns an 8-character uppercase hex code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// GetOrCreateCode returns the existing referral code for a user, or creates
// a new unique one. The unique index on code arbitrates collisions; on
// insert conflict a fresh code is generated and retried.
func (r *ReferralRepository) GetOrCreateCode(userID uint) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Where("user_id = ?", userID).First(&rc).Error; err == nil {
		return &rc, nil
	}
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return nil, err
		}
		rc = models.ReferralCode{UserID: userID, Code: code}
		err = r.db.Create(&rc).Error
		if err == nil {
			return &rc, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Two concurrent calls for the same user both insert; the loser of
		// the user_id unique index finds the winner's row on re-read.
		if err := r.db.Where("user_id = ?", userID).First(&rc).Error; err == nil {
			return &rc, nil
		}
	}
	return nil, fmt.Errorf("failed to generate a unique referral code after retries")
}

func (r *ReferralRepository) GetByCode(code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Where("code = ?", code).First(&rc).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

// GetApplicationByReferredUserID returns the application naming this user as
// the referred party, if one exists.
func (r *ReferralRepository) GetApplicationByReferredUserID(userID uint) (*models.ReferralApplication, error) {
	var app models.ReferralApplication
	if err := r.db.Where("referred_user_id = ?", userID).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ReferralRepository) ListByReferrerID(referrerID uint, limit, offset int) ([]models.ReferralApplication, error) {
	var list []models.ReferralApplication
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("ReferredUser").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
