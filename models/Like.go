package models

import (
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type Like struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_unique" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_likes_unique" json:"post_id"`
	User      User      `json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(l.PublicID) == "" {
		l.PublicID = uuid.NewV4().String()
	}
	return nil
}

// FindLike returns the (user, post) like if it exists.
func FindLike(db *gorm.DB, uid, pid uint) (*Like, error) {
	var like Like
	err := db.Where("user_id = ? AND post_id = ?", uid, pid).Take(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (l *Like) GetPostLikes(db *gorm.DB, pid uint) (*[]Like, error) {
	likes := []Like{}
	err := db.Preload("User").Where("post_id = ?", pid).
		Order("created_at desc").Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return &likes, nil
}

// DeleteUserLikes removes a user's likes when the account is deleted.
func (l *Like) DeleteUserLikes(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeletePostLikes removes all likes on a post when the post is deleted.
func (l *Like) DeletePostLikes(db *gorm.DB, pid uint) (int64, error) {
	result := db.Where("post_id = ?", pid).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
