package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"rewardly/internal/domain"
	"rewardly/internal/models"
	"rewardly/internal/repository"

	"gorm.io/gorm"
)

// ReferralService handles referral code creation and application. Applying a
// code is a lifetime-unique event per referred user: the unique index on
// referred_user_id arbitrates concurrent applications, and the application
// row plus both bonus credits commit or roll back together.
type ReferralService struct {
	db       *gorm.DB
	refRepo  *repository.ReferralRepository
	userRepo *repository.UserRepository
	accounts *repository.AccountRepository
	settings *repository.SettingRepository
}

func NewReferralService(
	db *gorm.DB,
	refRepo *repository.ReferralRepository,
	userRepo *repository.UserRepository,
	accounts *repository.AccountRepository,
	settings *repository.SettingRepository,
) *ReferralService {
	return &ReferralService{db: db, refRepo: refRepo, userRepo: userRepo, accounts: accounts, settings: settings}
}

// GetOrCreateCode is idempotent: an existing code is returned as-is.
func (s *ReferralService) GetOrCreateCode(userID uint) (*models.ReferralCode, error) {
	return s.refRepo.GetOrCreateCode(userID)
}

type ApplyResult struct {
	ReferrerID   uint  `json:"referrer_id"`
	PointsEarned int64 `json:"points_earned"`
	TotalPoints  int64 `json:"total_points"`
}

// ApplyCode applies a referral code on behalf of userID, crediting the code
// owner (influencer-multiplied) and the referred user (base bonus). Bonus
// amounts are read from system settings at apply time.
func (s *ReferralService) ApplyCode(userID uint, code string) (*ApplyResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	rc, err := s.refRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, err
	}
	if rc.UserID == userID {
		return nil, domain.ErrSelfReferral
	}
	if _, err := s.refRepo.GetApplicationByReferredUserID(userID); err == nil {
		return nil, domain.ErrAlreadyReferred
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	referrer, err := s.userRepo.GetByID(rc.UserID)
	if err != nil {
		return nil, err
	}

	base := s.settings.GetInt(domain.SettingReferralBonusPoints, 10)
	multiplier := s.settings.GetInt(domain.SettingReferralInfluencerMultiplier, 2)
	referrerBonus := base
	if referrer.IsInfluencer() {
		referrerBonus = base * multiplier
	}

	out := &ApplyResult{ReferrerID: rc.UserID, PointsEarned: base}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		app := models.ReferralApplication{
			ReferrerID:     rc.UserID,
			ReferredUserID: userID,
			CodeUsed:       code,
		}
		if err := tx.Create(&app).Error; err != nil {
			// The unique index on referred_user_id resolves the race between
			// two concurrent applications; the loser lands here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyReferred
			}
			return err
		}
		ref := fmt.Sprintf("referral_%d", app.ID)
		if err := s.accounts.Credit(tx, rc.UserID, referrerBonus, domain.PointsTxReferralBonus, ref); err != nil {
			return err
		}
		if err := s.accounts.Credit(tx, userID, base, domain.PointsTxReferralBonus, ref); err != nil {
			return err
		}
		if err := tx.Model(&app).UpdateColumn("points_awarded", true).Error; err != nil {
			return err
		}
		// Read the post-credit balance inside the transaction so a failed
		// read cannot report failure for an application that committed.
		var referred models.User
		if err := tx.Select("points").First(&referred, userID).Error; err != nil {
			return err
		}
		out.TotalPoints = referred.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[referral] code %s applied: user %d referred by user %d (+%d/+%d points)",
		code, userID, rc.UserID, referrerBonus, base)
	return out, nil
}

// ListReferrals returns the applications where userID is the referrer.
func (s *ReferralService) ListReferrals(userID uint, limit, offset int) ([]models.ReferralApplication, error) {
	return s.refRepo.ListByReferrerID(userID, limit, offset)
}
