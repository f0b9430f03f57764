package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"VibeShared/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLikePostToggle(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "like me")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.LikePost)
	r.DELETE("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.UnlikePost)

	// First like creates the record and bumps the counter.
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var reloaded models.Post
	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(1), reloaded.LikesCount)

	// Liking again is a no-op; the counter must not drift.
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(1), reloaded.LikesCount)

	var likeCount int64
	server.DB.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount)
	assert.Equal(t, int64(1), likeCount)

	// Unlike removes the record and the counter follows.
	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(0), reloaded.LikesCount)

	// Unliking a post that was never liked stays a no-op.
	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(0), reloaded.LikesCount)
}

func TestLikePostNotFound(t *testing.T) {
	server := setupTestServer(t)
	bob := createTestUser(t, server.DB, "bob")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.LikePost)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/999/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikePostOnPrivateAccountRequiresFollow(t *testing.T) {
	server := setupTestServer(t)
	martin := createTestUser(t, server.DB, "martin", func(u *models.User) {
		u.IsPrivate = true
	})
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, martin, "members only")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.LikePost)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	// After an approved follow the same request succeeds.
	approveFollow(t, server.DB, bob, martin)

	req, _ = http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetPostLikes(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "popular post")

	like := models.Like{UserID: bob.ID, PostID: post.ID}
	if err := server.DB.Create(&like).Error; err != nil {
		t.Fatalf("Failed to create like: %v", err)
	}

	r := gin.Default()
	r.GET("/api/v1/posts/:id/likes", server.GetPostLikes)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/posts/"+post.PublicID+"/likes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	likes := responseBody["response"].([]interface{})
	assert.Len(t, likes, 1)
	first := likes[0].(map[string]interface{})
	assert.Equal(t, "bob", first["username"])
	assert.Equal(t, post.PublicID, first["post_id"])
}

func TestGetPostLikesDegradesForAnonymous(t *testing.T) {
	server := setupTestServer(t)
	martin := createTestUser(t, server.DB, "martin", func(u *models.User) {
		u.IsPrivate = true
	})
	bob := createTestUser(t, server.DB, "bob")
	approveFollow(t, server.DB, bob, martin)
	post := createTestPost(t, server.DB, martin, "members only")

	like := models.Like{UserID: bob.ID, PostID: post.ID}
	if err := server.DB.Create(&like).Error; err != nil {
		t.Fatalf("Failed to create like: %v", err)
	}

	r := gin.Default()
	r.GET("/api/v1/posts/:id/likes", server.GetPostLikes)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/posts/"+post.PublicID+"/likes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	likes := responseBody["response"].([]interface{})
	assert.Len(t, likes, 0)
}
