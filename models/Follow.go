package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	FollowStatusPending  = "pending"
	FollowStatusApproved = "approved"
)

type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_follower_created,priority:1" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_followed_created,priority:1" json:"followed_id"`
	Status     string    `gorm:"size:20;not null;default:'approved';index" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_follows_followed_created,priority:2;index:idx_follows_follower_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasApprovedFollow reports whether follower has an approved edge to
// followed. Pending requests do not grant visibility.
func HasApprovedFollow(db *gorm.DB, followerID, followedID uint) (bool, error) {
	if followerID == 0 || followedID == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ? AND status = ?",
			followerID, followedID, FollowStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindFollow returns the edge between the pair regardless of status.
func FindFollow(db *gorm.DB, followerID, followedID uint) (*Follow, error) {
	var follow Follow
	err := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Take(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

// FindPendingRequests lists pending follow requests addressed to a user.
func (f *Follow) FindPendingRequests(db *gorm.DB, followedID uint) (*[]Follow, error) {
	follows := []Follow{}
	err := db.Where("followed_id = ? AND status = ?", followedID, FollowStatusPending).
		Order("created_at desc").Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return &follows, nil
}
