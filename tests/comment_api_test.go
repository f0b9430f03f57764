package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"VibeShared/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateComment(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "discuss")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/comments", AuthMiddlewareForTests(bob.ID), server.CreateComment)

	requestBody, _ := json.Marshal(map[string]string{"body": "great post"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	comment := responseBody["response"].(map[string]interface{})
	assert.Equal(t, "great post", comment["body"])
	assert.Nil(t, comment["parent_id"])

	var reloaded models.Post
	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(1), reloaded.CommentsCount)
}

func TestCreateCommentEmptyBody(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	post := createTestPost(t, server.DB, alice, "discuss")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/comments", AuthMiddlewareForTests(alice.ID), server.CreateComment)

	requestBody, _ := json.Marshal(map[string]string{"body": "   "})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateThreadedReply(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "discuss")

	parent := models.Comment{UserID: alice.ID, PostID: post.ID, Body: "root comment"}
	if err := server.DB.Create(&parent).Error; err != nil {
		t.Fatalf("Failed to create parent comment: %v", err)
	}

	r := gin.Default()
	r.POST("/api/v1/posts/:id/comments", AuthMiddlewareForTests(bob.ID), server.CreateComment)

	requestBody, _ := json.Marshal(map[string]string{
		"body":      "reply here",
		"parent_id": parent.PublicID,
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	comment := responseBody["response"].(map[string]interface{})
	assert.Equal(t, parent.PublicID, comment["parent_id"])
}

func TestCreateReplyParentOnDifferentPost(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	post := createTestPost(t, server.DB, alice, "post one")
	other := createTestPost(t, server.DB, alice, "post two")

	parent := models.Comment{UserID: alice.ID, PostID: other.ID, Body: "wrong thread"}
	if err := server.DB.Create(&parent).Error; err != nil {
		t.Fatalf("Failed to create parent comment: %v", err)
	}

	r := gin.Default()
	r.POST("/api/v1/posts/:id/comments", AuthMiddlewareForTests(alice.ID), server.CreateComment)

	requestBody, _ := json.Marshal(map[string]string{
		"body":      "orphan reply",
		"parent_id": parent.PublicID,
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentPermissionFollowersOnly(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice", func(u *models.User) {
		u.CommentPermission = models.CommentPermissionFollowers
	})
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "followers only comments")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/comments", AuthMiddlewareForTests(bob.ID), server.CreateComment)

	requestBody, _ := json.Marshal(map[string]string{"body": "can I comment?"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An approved follower passes the same gate.
	approveFollow(t, server.DB, bob, alice)

	req, _ = http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCommentPermissionDoesNotBlockOwner(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice", func(u *models.User) {
		u.CommentPermission = models.CommentPermissionFollowers
	})
	post := createTestPost(t, server.DB, alice, "my own post")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/comments", AuthMiddlewareForTests(alice.ID), server.CreateComment)

	requestBody, _ := json.Marshal(map[string]string{"body": "my own comment"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/comments", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateCommentOnlyAuthor(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "discuss")

	comment := models.Comment{UserID: bob.ID, PostID: post.ID, Body: "original"}
	if err := server.DB.Create(&comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	r := gin.Default()
	r.PUT("/api/v1/comments/:id", AuthMiddlewareForTests(alice.ID), server.UpdateComment)

	requestBody, _ := json.Marshal(map[string]string{"body": "tampered"})
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/comments/"+comment.PublicID, bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Comment
	server.DB.Where("id = ?", comment.ID).Take(&reloaded)
	assert.Equal(t, "original", reloaded.Body)
}

func TestDeleteCommentByPostOwner(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "discuss")

	comment := models.Comment{UserID: bob.ID, PostID: post.ID, Body: "unwelcome"}
	if err := server.DB.Create(&comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	if err := server.DB.Model(&models.Post{}).Where("id = ?", post.ID).
		Update("comments_count", 1).Error; err != nil {
		t.Fatalf("Failed to set comment count: %v", err)
	}

	r := gin.Default()
	r.DELETE("/api/v1/comments/:id", AuthMiddlewareForTests(alice.ID), server.DeleteComment)

	// The post owner can moderate comments on their own post.
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/comments/"+comment.PublicID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var commentCount int64
	server.DB.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&commentCount)
	assert.Equal(t, int64(0), commentCount)

	var reloaded models.Post
	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(0), reloaded.CommentsCount)
}

func TestGetComments(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	post := createTestPost(t, server.DB, alice, "discuss")

	comment := models.Comment{UserID: alice.ID, PostID: post.ID, Body: "first!"}
	if err := server.DB.Create(&comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	r := gin.Default()
	r.GET("/api/v1/posts/:id/comments", server.GetComments)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/posts/"+post.PublicID+"/comments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	comments := responseBody["response"].([]interface{})
	assert.Len(t, comments, 1)
	first := comments[0].(map[string]interface{})
	assert.Equal(t, "first!", first["body"])
	assert.Equal(t, "alice", first["username"])
}
