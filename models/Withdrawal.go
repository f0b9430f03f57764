package models

import (
	"errors"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

var ErrWithdrawalResolved = errors.New("withdrawal already resolved")

// Withdrawal is an admin-reviewed payout request. Funds are held (debited)
// when the request is created and refunded on rejection, so a pending
// request can never be double-spent by concurrent tips.
type Withdrawal struct {
	ID          uint       `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID    string     `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user"`
	AmountCents int64      `gorm:"not null" json:"amount_cents"`
	Status      string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ReviewerID  *uint      `json:"reviewer_id"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(w.PublicID) == "" {
		w.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (w *Withdrawal) Validate() map[string]string {
	errorMessages := make(map[string]string)

	if w.AmountCents <= 0 {
		errorMessages["Invalid_amount"] = "Amount must be positive"
	}
	if w.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	return errorMessages
}

// SaveWithdrawal debits the balance and records the pending request in one
// transaction.
func (w *Withdrawal) SaveWithdrawal(db *gorm.DB) (*Withdrawal, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := DebitWallet(tx, w.UserID, w.AmountCents); err != nil {
			return err
		}
		w.Status = WithdrawalStatusPending
		return tx.Create(w).Error
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Resolve transitions a pending withdrawal to approved or rejected.
// Rejection refunds the held amount. Acting on an already-resolved request
// fails with ErrWithdrawalResolved.
func (w *Withdrawal) Resolve(db *gorm.DB, reviewerID uint, approve bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var current Withdrawal
		if err := tx.Where("id = ?", w.ID).Take(&current).Error; err != nil {
			return err
		}
		if current.Status != WithdrawalStatusPending {
			return ErrWithdrawalResolved
		}

		status := WithdrawalStatusRejected
		if approve {
			status = WithdrawalStatusApproved
		}
		now := time.Now()
		if err := tx.Model(&Withdrawal{}).Where("id = ?", w.ID).Updates(map[string]interface{}{
			"status":      status,
			"reviewer_id": reviewerID,
			"reviewed_at": now,
			"updated_at":  now,
		}).Error; err != nil {
			return err
		}

		if !approve {
			return CreditWallet(tx, current.UserID, current.AmountCents)
		}
		return nil
	})
}

// FindUserWithdrawals lists a user's withdrawal requests, newest first.
func (w *Withdrawal) FindUserWithdrawals(db *gorm.DB, uid uint) (*[]Withdrawal, error) {
	withdrawals := []Withdrawal{}
	err := db.Where("user_id = ?", uid).Order("created_at desc").Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return &withdrawals, nil
}

// FindPendingWithdrawals lists requests awaiting admin review.
func (w *Withdrawal) FindPendingWithdrawals(db *gorm.DB) (*[]Withdrawal, error) {
	withdrawals := []Withdrawal{}
	err := db.Preload("User").Where("status = ?", WithdrawalStatusPending).
		Order("created_at asc").Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return &withdrawals, nil
}
