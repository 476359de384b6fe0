package repository

import (
	"fmt"

	"rewardly/internal/domain"
	"rewardly/internal/models"

	"gorm.io/gorm"
)

// AccountRepository is the only place point balances are mutated. Credit and
// Debit are single guarded UPDATE statements, so the balance check and the
// mutation cannot interleave with a concurrent writer; a debit that would go
// negative simply matches no row. All three engines share these primitives.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// handle returns tx when the caller is inside a transaction, else the base DB.
func (r *AccountRepository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Credit adds points to the account and records a ledger entry.
func (r *AccountRepository) Credit(tx *gorm.DB, userID uint, amount int64, txType, reference string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	db := r.handle(tx)
	res := db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return db.Create(&models.PointsTransaction{
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		Reference: reference,
	}).Error
}

// Debit removes points, failing with ErrInsufficientBalance if the account
// cannot cover the amount. The points >= ? guard makes the check atomic with
// the decrement.
func (r *AccountRepository) Debit(tx *gorm.DB, userID uint, amount int64, txType, reference string) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	db := r.handle(tx)
	res := db.Model(&models.User{}).
		Where("id = ? AND points >= ?", userID, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientBalance
	}
	return db.Create(&models.PointsTransaction{
		UserID:    userID,
		Amount:    -amount,
		Type:      txType,
		Reference: reference,
	}).Error
}

// Balance reads the current point balance.
func (r *AccountRepository) Balance(userID uint) (int64, error) {
	var u models.User
	if err := r.db.Select("points").First(&u, userID).Error; err != nil {
		return 0, err
	}
	return u.Points, nil
}

func (r *AccountRepository) ListTransactions(userID uint, limit, offset int) ([]models.PointsTransaction, error) {
	var list []models.PointsTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
