package models

import (
	"errors"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"VibeShared/security"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusDeleted   = "deleted"

	CommentPermissionEveryone  = "everyone"
	CommentPermissionFollowers = "followers"
)

type User struct {
	ID                uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID          string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Username          string    `gorm:"size:255;not null;unique" json:"username"`
	Email             string    `gorm:"size:100;not null;unique" json:"email"`
	Password          string    `gorm:"size:255;not null" json:"password"`
	AvatarPath        string    `gorm:"size:255;null;" json:"avatar_path"`
	Bio               string    `gorm:"size:500" json:"bio"`
	IsAdmin           bool      `gorm:"default:false" json:"is_admin"`
	IsPrivate         bool      `gorm:"not null;default:false" json:"is_private"`
	Status            string    `gorm:"size:20;not null;default:'active'" json:"status"`
	CommentPermission string    `gorm:"size:20;not null;default:'everyone'" json:"comment_permission"`
	NotifyLikes       *bool     `gorm:"not null;default:true" json:"notify_likes"`
	NotifyComments    *bool     `gorm:"not null;default:true" json:"notify_comments"`
	NotifyFollows     *bool     `gorm:"not null;default:true" json:"notify_follows"`
	FollowersCount    int64     `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount    int64     `gorm:"not null;default:0" json:"following_count"`
	CreatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsActive reports whether the account may appear anywhere. Suspended and
// deleted owners are treated as missing by the visibility checks.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// The notify flags are pointers so an explicit false survives the insert
// (GORM drops zero values for columns that carry a default). A nil flag
// means the column default, which is on.

func (u *User) LikeNotificationsEnabled() bool {
	return u.NotifyLikes == nil || *u.NotifyLikes
}

func (u *User) CommentNotificationsEnabled() bool {
	return u.NotifyComments == nil || *u.NotifyComments
}

func (u *User) FollowNotificationsEnabled() bool {
	return u.NotifyFollows == nil || *u.NotifyFollows
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	return u.HashPassword()
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Username)))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.Bio = html.EscapeString(strings.TrimSpace(u.Bio))

	if u.Status == "" {
		u.Status = UserStatusActive
	}
	if u.CommentPermission == "" {
		u.CommentPermission = CommentPermissionEveryone
	}
	// New accounts are never admins; the env-seeded admin is the only bootstrap path.
	if u.ID == 0 {
		u.IsAdmin = false
	}

	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

func (u *User) AfterFind(tx *gorm.DB) (err error) {
	if u.AvatarPath == "" || strings.HasPrefix(u.AvatarPath, "http") {
		return nil
	}
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	key := u.AvatarPath
	if !strings.HasPrefix(key, "UserProfilePics/") {
		key = "UserProfilePics/" + key
	}
	u.AvatarPath = "https://" + bucket + ".s3." + region + ".amazonaws.com/" + key
	return nil
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "update":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}

	case "login":
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	case "forgotpassword":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	case "settings":
		if u.CommentPermission != CommentPermissionEveryone && u.CommentPermission != CommentPermissionFollowers {
			errorMessages["Invalid_comment_permission"] = "Comment permission must be everyone or followers"
		}
	default:
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if len(u.Password) < 6 {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	err := db.Create(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindAllUsers(db *gorm.DB) (*[]User, error) {
	var users []User
	err := db.Where("status = ?", UserStatusActive).Limit(100).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	err := db.Where("id = ?", uid).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) UpdateAUser(db *gorm.DB, uid uint) (*User, error) {
	columns := map[string]interface{}{
		"email":      u.Email,
		"bio":        u.Bio,
		"updated_at": time.Now(),
	}
	// An empty password means "unchanged", never "cleared".
	if u.Password != "" {
		err := u.HashPassword()
		if err != nil {
			log.Fatal(err)
		}
		columns["password"] = u.Password
	}

	err := db.Model(&User{}).Where("id = ?", uid).Updates(columns).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", uid).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateSettings persists privacy, comment-permission and notification
// preferences in one shot.
func (u *User) UpdateSettings(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"is_private":         u.IsPrivate,
		"comment_permission": u.CommentPermission,
		"notify_likes":       u.LikeNotificationsEnabled(),
		"notify_comments":    u.CommentNotificationsEnabled(),
		"notify_follows":     u.FollowNotificationsEnabled(),
		"updated_at":         time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", uid).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) UpdateAUserAvatar(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"avatar_path": u.AvatarPath,
		"updated_at":  time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", uid).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateStatus flips the moderation status (admin suspend/reactivate).
func (u *User) UpdateStatus(db *gorm.DB, uid uint, status string) error {
	return db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}).Error
}

func (u *User) DeleteAUser(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("id = ?", uid).Delete(&User{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (u *User) UpdatePassword(db *gorm.DB) error {
	err := u.HashPassword()
	if err != nil {
		log.Fatal(err)
	}

	err = db.Model(&User{}).Where("email = ?", u.Email).Updates(map[string]interface{}{
		"password":   u.Password,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return err
	}
	return nil
}
