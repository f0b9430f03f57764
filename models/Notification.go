package models

import (
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeLike          = "like"
	NotificationTypeComment       = "comment"
	NotificationTypeFollow        = "follow"
	NotificationTypeFollowRequest = "follow_request"
	NotificationTypeTip           = "tip"
)

type Notification struct {
	ID          uint       `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID    string     `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	RecipientID uint       `gorm:"not null;index;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	ActorID     uint       `gorm:"not null" json:"actor_id"`
	Actor       User       `gorm:"foreignKey:ActorID" json:"actor"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	PostID      *uint      `json:"post_id"`
	CommentID   *uint      `json:"comment_id"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(n.PublicID) == "" {
		n.PublicID = uuid.NewV4().String()
	}
	return nil
}

// NotifyUser creates a notification unless the recipient should not
// receive it: self-actions, blocked pairs and per-type opt-outs all skip
// silently. A skip is success, never an error.
func NotifyUser(db *gorm.DB, recipientID, actorID uint, notifType string, postID, commentID *uint) error {
	if recipientID == 0 || actorID == 0 || recipientID == actorID {
		return nil
	}

	blocked, err := IsBlocked(db, recipientID, actorID)
	if err != nil {
		return err
	}
	if blocked {
		return nil
	}

	var recipient User
	if err := db.Select("id", "notify_likes", "notify_comments", "notify_follows", "status").
		Where("id = ?", recipientID).Take(&recipient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if !recipient.IsActive() {
		return nil
	}

	switch notifType {
	case NotificationTypeLike:
		if !recipient.LikeNotificationsEnabled() {
			return nil
		}
	case NotificationTypeComment:
		if !recipient.CommentNotificationsEnabled() {
			return nil
		}
	case NotificationTypeFollow, NotificationTypeFollowRequest:
		if !recipient.FollowNotificationsEnabled() {
			return nil
		}
	}

	notification := Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        notifType,
		PostID:      postID,
		CommentID:   commentID,
	}
	return db.Create(&notification).Error
}

// FindUserNotifications lists a user's notifications, unread first.
func (n *Notification) FindUserNotifications(db *gorm.DB, uid uint, limit int) (*[]Notification, error) {
	notifications := []Notification{}
	err := db.Preload("Actor").Where("recipient_id = ?", uid).
		Order("read_at IS NOT NULL, created_at desc").
		Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return &notifications, nil
}

// MarkRead stamps a single notification owned by uid.
func (n *Notification) MarkRead(db *gorm.DB, uid uint, nid uint) (int64, error) {
	result := db.Model(&Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", nid, uid).
		Update("read_at", time.Now())
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkAllRead stamps every unread notification for uid.
func (n *Notification) MarkAllRead(db *gorm.DB, uid uint) (int64, error) {
	result := db.Model(&Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", uid).
		Update("read_at", time.Now())
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteUserNotifications clears notifications touching a deleted account.
func (n *Notification) DeleteUserNotifications(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("recipient_id = ? OR actor_id = ?", uid, uid).Delete(&Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
