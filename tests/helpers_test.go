package tests

import (
	"testing"

	"VibeShared/controllers"
	"VibeShared/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthMiddlewareForTests injects an authenticated user ID into the Gin
// context, bypassing JWT parsing.
func AuthMiddlewareForTests(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// AdminMiddlewareForTests injects an authenticated admin into the Gin
// context.
func AdminMiddlewareForTests(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("isAdmin", true)
		c.Next()
	}
}

func setupTestServer(t *testing.T) *controllers.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Wallet{},
		&models.Tip{},
		&models.Withdrawal{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return &controllers.Server{DB: db}
}

func boolPtr(v bool) *bool {
	return &v
}

func createTestUser(t *testing.T, db *gorm.DB, username string, mutators ...func(*models.User)) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	user.Prepare()
	for _, mutate := range mutators {
		mutate(&user)
	}
	saved, err := user.SaveUser(db)
	if err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}
	return saved
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, caption string) *models.Post {
	t.Helper()

	post := models.Post{
		AuthorID: author.ID,
		Caption:  caption,
	}
	post.Prepare()
	saved, err := post.SavePost(db)
	if err != nil {
		t.Fatalf("Failed to create post for %q: %v", author.Username, err)
	}
	return saved
}

func approveFollow(t *testing.T, db *gorm.DB, follower, followed *models.User) {
	t.Helper()

	follow := models.Follow{
		FollowerID: follower.ID,
		FollowedID: followed.ID,
		Status:     models.FollowStatusApproved,
	}
	if err := db.Create(&follow).Error; err != nil {
		t.Fatalf("Failed to create follow edge: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", follower.ID).
		UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
		t.Fatalf("Failed to update following count: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", followed.ID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error; err != nil {
		t.Fatalf("Failed to update followers count: %v", err)
	}
}
