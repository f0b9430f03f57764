package models

import (
	"html"
	"os"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID            uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID      string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	AuthorID      uint      `gorm:"not null;index;index:idx_posts_author_created,priority:1" json:"author_id"`
	Author        User      `gorm:"foreignKey:AuthorID" json:"author"`
	Caption       string    `gorm:"text" json:"caption"`
	MediaPath     string    `gorm:"size:255" json:"media_path"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int64     `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_posts_author_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.PublicID) == "" {
		p.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (p *Post) Prepare() {
	p.Caption = html.EscapeString(strings.TrimSpace(p.Caption))
	p.Author = User{}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Post) Validate() map[string]string {
	errorMessages := make(map[string]string)

	if p.Caption == "" && p.MediaPath == "" {
		errorMessages["Required_content"] = "A caption or media file is required"
	}
	if p.AuthorID == 0 {
		errorMessages["Required_author"] = "Author is required"
	}
	return errorMessages
}

func (p *Post) AfterFind(tx *gorm.DB) (err error) {
	if p.MediaPath == "" || strings.HasPrefix(p.MediaPath, "http") {
		return nil
	}
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	key := p.MediaPath
	if !strings.HasPrefix(key, "PostMedia/") {
		key = "PostMedia/" + key
	}
	p.MediaPath = "https://" + bucket + ".s3." + region + ".amazonaws.com/" + key
	return nil
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if err := db.Create(p).Error; err != nil {
		return nil, err
	}
	if err := db.Model(p).Association("Author").Find(&p.Author); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Post) FindPostByID(db *gorm.DB, pid uint) (*Post, error) {
	err := db.Preload("Author").Where("id = ?", pid).Take(&p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Post) FindUserPosts(db *gorm.DB, uid uint) (*[]Post, error) {
	var posts []Post
	err := db.Preload("Author").
		Where("author_id = ?", uid).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

func (p *Post) UpdatePost(db *gorm.DB) (*Post, error) {
	p.UpdatedAt = time.Now()

	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"caption":    p.Caption,
		"updated_at": p.UpdatedAt,
	}).Error
	if err != nil {
		return nil, err
	}

	if err := db.Model(&User{}).Where("id = ?", p.AuthorID).Take(&p.Author).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Post) DeletePost(db *gorm.DB, pid uint) (int64, error) {
	result := db.Delete(&Post{}, pid)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteUserPosts removes all of a user's posts when the account is deleted.
func (p *Post) DeleteUserPosts(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("author_id = ?", uid).Delete(&Post{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
