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

func TestBlockUser(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")

	r := gin.Default()
	r.POST("/api/v1/users/:id/block", AuthMiddlewareForTests(alice.ID), server.BlockUser)
	r.GET("/api/v1/blocks", AuthMiddlewareForTests(alice.ID), server.GetBlockedUsers)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/"+bob.PublicID+"/block", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	blocked, err := models.IsBlocked(server.DB, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("IsBlocked failed: %v", err)
	}
	assert.True(t, blocked)

	// The stored record is directional but the query is symmetric.
	blocked, _ = models.IsBlocked(server.DB, bob.ID, alice.ID)
	assert.True(t, blocked)

	// Blocking twice is a conflict, not a duplicate row.
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/users/"+bob.PublicID+"/block", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The blocked account shows up in the blocker's list.
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/blocks", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	users := responseBody["response"].([]interface{})
	assert.Len(t, users, 1)
	first := users[0].(map[string]interface{})
	assert.Equal(t, "bob", first["username"])
}

func TestBlockSelf(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")

	r := gin.Default()
	r.POST("/api/v1/users/:id/block", AuthMiddlewareForTests(alice.ID), server.BlockUser)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/"+alice.PublicID+"/block", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnblockUserIdempotent(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")

	block := models.Block{BlockerID: alice.ID, BlockedID: bob.ID}
	if err := block.SaveBlock(server.DB); err != nil {
		t.Fatalf("Failed to create block: %v", err)
	}

	r := gin.Default()
	r.DELETE("/api/v1/users/:id/block", AuthMiddlewareForTests(alice.ID), server.UnblockUser)

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/users/"+bob.PublicID+"/block", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	blocked, _ := models.IsBlocked(server.DB, alice.ID, bob.ID)
	assert.False(t, blocked)

	// Unblocking a user who was never blocked is still a 200.
	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/users/"+bob.PublicID+"/block", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnblockOnlyRemovesOwnDirection(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")

	aliceBlock := models.Block{BlockerID: alice.ID, BlockedID: bob.ID}
	if err := aliceBlock.SaveBlock(server.DB); err != nil {
		t.Fatalf("Failed to create block: %v", err)
	}
	bobBlock := models.Block{BlockerID: bob.ID, BlockedID: alice.ID}
	if err := bobBlock.SaveBlock(server.DB); err != nil {
		t.Fatalf("Failed to create block: %v", err)
	}

	r := gin.Default()
	r.DELETE("/api/v1/users/:id/block", AuthMiddlewareForTests(alice.ID), server.UnblockUser)

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/users/"+bob.PublicID+"/block", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Bob's own block remains; the pair is still blocked.
	blocked, _ := models.IsBlocked(server.DB, alice.ID, bob.ID)
	assert.True(t, blocked)
}

func TestBlockedPairCannotInteract(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "public post")

	block := models.Block{BlockerID: alice.ID, BlockedID: bob.ID}
	if err := block.SaveBlock(server.DB); err != nil {
		t.Fatalf("Failed to create block: %v", err)
	}

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.LikePost)

	// Blocking wins even on public content.
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Post
	server.DB.Where("id = ?", post.ID).Take(&reloaded)
	assert.Equal(t, int64(0), reloaded.LikesCount)
}

func TestBlockDoesNotCascadeFollows(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	approveFollow(t, server.DB, bob, alice)

	r := gin.Default()
	r.POST("/api/v1/users/:id/block", AuthMiddlewareForTests(alice.ID), server.BlockUser)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users/"+bob.PublicID+"/block", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// The follow edge stays; visibility checks hide content from the pair
	// at read time instead.
	edge, err := models.FindFollow(server.DB, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("Expected follow edge to survive the block: %v", err)
	}
	assert.Equal(t, models.FollowStatusApproved, edge.Status)
}
