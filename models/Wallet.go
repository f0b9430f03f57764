package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet holds a creator's tip balance in integer cents.
type Wallet struct {
	ID           uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	BalanceCents int64     `gorm:"not null;default:0" json:"balance_cents"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetOrCreateWallet returns the user's wallet, creating an empty one on
// first touch.
func GetOrCreateWallet(db *gorm.DB, uid uint) (*Wallet, error) {
	wallet := Wallet{UserID: uid}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&wallet).Error; err != nil {
		return nil, err
	}
	if err := db.Where("user_id = ?", uid).Take(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit adds amountCents to the user's balance inside the caller's
// transaction.
func CreditWallet(tx *gorm.DB, uid uint, amountCents int64) error {
	if _, err := GetOrCreateWallet(tx, uid); err != nil {
		return err
	}
	return tx.Model(&Wallet{}).Where("user_id = ?", uid).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents + ?", amountCents)).Error
}

// Debit subtracts amountCents, failing with ErrInsufficientFunds when the
// balance does not cover it. The guarded UPDATE is the concurrency
// backstop; no row is changed when funds are short.
func DebitWallet(tx *gorm.DB, uid uint, amountCents int64) error {
	if _, err := GetOrCreateWallet(tx, uid); err != nil {
		return err
	}
	result := tx.Model(&Wallet{}).
		Where("user_id = ? AND balance_cents >= ?", uid, amountCents).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents - ?", amountCents))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}
