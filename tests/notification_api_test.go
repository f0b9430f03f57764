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

func TestLikeCreatesNotification(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "like me")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.LikePost)
	r.GET("/api/v1/notifications", AuthMiddlewareForTests(alice.ID), server.GetNotifications)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	notifications := responseBody["response"].([]interface{})
	assert.Len(t, notifications, 1)
	first := notifications[0].(map[string]interface{})
	assert.Equal(t, "like", first["type"])
	assert.Equal(t, false, first["read"])
	actor := first["actor"].(map[string]interface{})
	assert.Equal(t, "bob", actor["username"])
}

func TestSelfActionCreatesNoNotification(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	post := createTestPost(t, server.DB, alice, "my post")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(alice.ID), server.LikePost)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	server.DB.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOptOutSkipsNotification(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice", func(u *models.User) {
		u.NotifyLikes = boolPtr(false)
		u.NotifyComments = boolPtr(true)
		u.NotifyFollows = boolPtr(true)
	})
	bob := createTestUser(t, server.DB, "bob")
	post := createTestPost(t, server.DB, alice, "quiet post")

	r := gin.Default()
	r.POST("/api/v1/posts/:id/like", AuthMiddlewareForTests(bob.ID), server.LikePost)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/posts/"+post.PublicID+"/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// The like lands, silently.
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	server.DB.Model(&models.Notification{}).Where("recipient_id = ?", alice.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMarkNotificationRead(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")

	if err := models.NotifyUser(server.DB, alice.ID, bob.ID, models.NotificationTypeFollow, nil, nil); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}
	var notification models.Notification
	if err := server.DB.Where("recipient_id = ?", alice.ID).Take(&notification).Error; err != nil {
		t.Fatalf("Failed to load notification: %v", err)
	}

	r := gin.Default()
	r.POST("/api/v1/notifications/:id/read", AuthMiddlewareForTests(alice.ID), server.MarkNotificationRead)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/notifications/"+notification.PublicID+"/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Notification
	server.DB.Where("id = ?", notification.ID).Take(&reloaded)
	assert.NotNil(t, reloaded.ReadAt)
}

func TestMarkNotificationReadWrongRecipient(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	carol := createTestUser(t, server.DB, "carol")

	if err := models.NotifyUser(server.DB, alice.ID, bob.ID, models.NotificationTypeFollow, nil, nil); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}
	var notification models.Notification
	if err := server.DB.Where("recipient_id = ?", alice.ID).Take(&notification).Error; err != nil {
		t.Fatalf("Failed to load notification: %v", err)
	}

	r := gin.Default()
	r.POST("/api/v1/notifications/:id/read", AuthMiddlewareForTests(carol.ID), server.MarkNotificationRead)

	// Another user cannot touch the notification.
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/notifications/"+notification.PublicID+"/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")
	carol := createTestUser(t, server.DB, "carol")

	if err := models.NotifyUser(server.DB, alice.ID, bob.ID, models.NotificationTypeFollow, nil, nil); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}
	if err := models.NotifyUser(server.DB, alice.ID, carol.ID, models.NotificationTypeFollow, nil, nil); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}

	r := gin.Default()
	r.POST("/api/v1/notifications/read-all", AuthMiddlewareForTests(alice.ID), server.MarkAllNotificationsRead)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/notifications/read-all", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	payload := responseBody["response"].(map[string]interface{})
	assert.Equal(t, float64(2), payload["updated"])

	var unread int64
	server.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", alice.ID).Count(&unread)
	assert.Equal(t, int64(0), unread)
}

func TestBlockedActorNotificationSkipped(t *testing.T) {
	server := setupTestServer(t)
	alice := createTestUser(t, server.DB, "alice")
	bob := createTestUser(t, server.DB, "bob")

	block := models.Block{BlockerID: alice.ID, BlockedID: bob.ID}
	if err := block.SaveBlock(server.DB); err != nil {
		t.Fatalf("Failed to create block: %v", err)
	}

	// A skip is success, never an error.
	if err := models.NotifyUser(server.DB, alice.ID, bob.ID, models.NotificationTypeFollow, nil, nil); err != nil {
		t.Fatalf("NotifyUser returned error for blocked pair: %v", err)
	}

	var count int64
	server.DB.Model(&models.Notification{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
