package models

import (
	"html"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"gorm.io/gorm"
)

type ResetPassword struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Email     string    `gorm:"size:100;not null;" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (rp *ResetPassword) Prepare() {
	rp.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(rp.Email)))
	rp.Token = html.EscapeString(strings.TrimSpace(rp.Token))
	if rp.ExpiresAt.IsZero() {
		rp.ExpiresAt = time.Now().Add(time.Hour)
	}
}

func (rp *ResetPassword) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if rp.Email == "" {
		errorMessages["Required_email"] = "Required Email"
	}
	if rp.Email != "" {
		if err := checkmail.ValidateFormat(rp.Email); err != nil {
			errorMessages["Invalid_email"] = "Invalid Email"
		}
	}
	return errorMessages
}

func (rp *ResetPassword) SaveDetails(db *gorm.DB) (*ResetPassword, error) {
	err := db.Create(&rp).Error
	if err != nil {
		return nil, err
	}
	return rp, nil
}

func (rp *ResetPassword) DeleteDetails(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", rp.ID).Delete(&ResetPassword{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
