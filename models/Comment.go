package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Author    User      `gorm:"foreignKey:UserID" json:"author"`
	Body      string    `gorm:"text;not null;" json:"body"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(c.PublicID) == "" {
		c.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Body = html.EscapeString(strings.TrimSpace(c.Body))
	c.Author = User{}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (comment *Comment) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	if comment.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	}
	if comment.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	if comment.PostID == 0 {
		errorMessages["Required_post"] = "Post is required"
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	err := db.Create(&c).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetComments returns a post's comments, replies included, newest thread
// roots first.
func (c *Comment) GetComments(db *gorm.DB, pid uint) (*[]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").Where("post_id = ?", pid).
		Order("created_at desc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return &comments, nil
}

func (c *Comment) UpdateAComment(db *gorm.DB) (*Comment, error) {
	err := db.Model(&Comment{}).Where("id = ?", c.ID).Updates(map[string]interface{}{"body": c.Body, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", c.ID).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteUserComments removes a user's comments when the account is deleted.
func (c *Comment) DeleteUserComments(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeletePostComments removes all comments on a post when the post is deleted.
func (c *Comment) DeletePostComments(db *gorm.DB, pid uint) (int64, error) {
	result := db.Where("post_id = ?", pid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
