package models

import (
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// Tip is one ledger entry: SenderID tipped RecipientID, optionally on a post.
type Tip struct {
	ID          uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID    string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	PostID      *uint     `json:"post_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Tip) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(t.PublicID) == "" {
		t.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (t *Tip) Validate() map[string]string {
	errorMessages := make(map[string]string)

	if t.AmountCents <= 0 {
		errorMessages["Invalid_amount"] = "Amount must be positive"
	}
	if t.SenderID == 0 {
		errorMessages["Required_sender"] = "Sender is required"
	}
	if t.RecipientID == 0 {
		errorMessages["Required_recipient"] = "Recipient is required"
	}
	if t.SenderID != 0 && t.SenderID == t.RecipientID {
		errorMessages["Invalid_recipient"] = "Cannot tip yourself"
	}
	return errorMessages
}

// SaveTip moves the money and records the ledger entry in one transaction.
func (t *Tip) SaveTip(db *gorm.DB) (*Tip, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := DebitWallet(tx, t.SenderID, t.AmountCents); err != nil {
			return err
		}
		if err := CreditWallet(tx, t.RecipientID, t.AmountCents); err != nil {
			return err
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindReceivedTips lists tips received by a user, newest first.
func (t *Tip) FindReceivedTips(db *gorm.DB, uid uint, limit int) (*[]Tip, error) {
	tips := []Tip{}
	err := db.Where("recipient_id = ?", uid).
		Order("created_at desc").Limit(limit).Find(&tips).Error
	if err != nil {
		return nil, err
	}
	return &tips, nil
}
