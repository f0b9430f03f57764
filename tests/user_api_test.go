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

func TestCreateUser(t *testing.T) {
	server := setupTestServer(t)
	r := gin.Default()
	r.POST("/api/v1/users", server.CreateUser)

	mockUser := map[string]string{
		"username": "testuser",
		"email":    "testuser@example.com",
		"password": "password123",
	}
	requestBody, err := json.Marshal(mockUser)
	if err != nil {
		t.Fatalf("Error creating request body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBuffer(requestBody))
	if err != nil {
		t.Fatalf("Error creating HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var responseBody map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &responseBody)
	if err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}

	responseUser := responseBody["response"].(map[string]interface{})
	assert.Equal(t, mockUser["username"], responseUser["username"])
	assert.Equal(t, mockUser["email"], responseUser["email"])

	// The outward-facing ID is a UUID, never the database row ID.
	publicID, ok := responseUser["id"].(string)
	assert.True(t, ok, "id should be a string")
	assert.Len(t, publicID, 36)

	// Password should not be exposed in the response
	_, passwordExists := responseUser["password"]
	assert.False(t, passwordExists, "Password field should not be exposed in response")
}

func TestCreateUserShortPassword(t *testing.T) {
	server := setupTestServer(t)
	r := gin.Default()
	r.POST("/api/v1/users", server.CreateUser)

	requestBody, _ := json.Marshal(map[string]string{
		"username": "testuser",
		"email":    "testuser@example.com",
		"password": "short",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetUserPublicProfile(t *testing.T) {
	server := setupTestServer(t)
	user := createTestUser(t, server.DB, "steven")

	r := gin.Default()
	r.GET("/api/v1/users/:id", server.GetUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+user.PublicID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	profile := responseBody["response"].(map[string]interface{})
	assert.Equal(t, "steven", profile["username"])
	assert.Equal(t, user.PublicID, profile["id"])
}

func TestGetUserPrivateProfileAnonymous(t *testing.T) {
	server := setupTestServer(t)
	private := createTestUser(t, server.DB, "martin", func(u *models.User) {
		u.IsPrivate = true
		u.Bio = "hidden bio"
	})

	r := gin.Default()
	r.GET("/api/v1/users/:id", server.GetUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+private.PublicID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Hidden profiles still return a limited shell so the viewer can
	// request to follow.
	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	profile := responseBody["response"].(map[string]interface{})
	assert.Equal(t, "martin", profile["username"])
	assert.Equal(t, true, profile["is_private"])

	_, emailExists := profile["email"]
	assert.False(t, emailExists, "Email should not be exposed on hidden profiles")
	_, bioExists := profile["bio"]
	assert.False(t, bioExists, "Bio should not be exposed on hidden profiles")
}

func TestGetUserPrivateProfileAsFollower(t *testing.T) {
	server := setupTestServer(t)
	private := createTestUser(t, server.DB, "martin", func(u *models.User) {
		u.IsPrivate = true
		u.Bio = "now visible"
	})
	follower := createTestUser(t, server.DB, "steven")
	approveFollow(t, server.DB, follower, private)

	r := gin.Default()
	r.GET("/api/v1/users/:id", AuthMiddlewareForTests(follower.ID), server.GetUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+private.PublicID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	profile := responseBody["response"].(map[string]interface{})
	assert.Equal(t, "now visible", profile["bio"])
}

func TestGetSuspendedUser(t *testing.T) {
	server := setupTestServer(t)
	suspended := createTestUser(t, server.DB, "ghost", func(u *models.User) {
		u.Status = models.UserStatusSuspended
	})

	r := gin.Default()
	r.GET("/api/v1/users/:id", server.GetUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/"+suspended.PublicID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUserKeepsNotificationOptOut(t *testing.T) {
	server := setupTestServer(t)
	user := createTestUser(t, server.DB, "quietrachel", func(u *models.User) {
		u.NotifyLikes = boolPtr(false)
	})

	var stored models.User
	if err := server.DB.Where("id = ?", user.ID).Take(&stored).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	// An opt-out present at insert time must not be replaced by the
	// column default.
	assert.False(t, stored.LikeNotificationsEnabled())
	assert.True(t, stored.CommentNotificationsEnabled())
	assert.True(t, stored.FollowNotificationsEnabled())
}

func TestUpdateSettings(t *testing.T) {
	server := setupTestServer(t)
	user := createTestUser(t, server.DB, "steven")

	r := gin.Default()
	r.PUT("/api/v1/users/settings", AuthMiddlewareForTests(user.ID), server.UpdateSettings)

	requestBody, _ := json.Marshal(map[string]interface{}{
		"is_private":         true,
		"comment_permission": "followers",
		"notify_likes":       false,
	})
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/settings", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	if err := server.DB.Where("id = ?", user.ID).Take(&updated).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	assert.True(t, updated.IsPrivate)
	assert.Equal(t, models.CommentPermissionFollowers, updated.CommentPermission)
	assert.False(t, updated.LikeNotificationsEnabled())
	// Fields omitted from the payload keep their current value.
	assert.True(t, updated.CommentNotificationsEnabled())
}

func TestUpdateSettingsInvalidCommentPermission(t *testing.T) {
	server := setupTestServer(t)
	user := createTestUser(t, server.DB, "steven")

	r := gin.Default()
	r.PUT("/api/v1/users/settings", AuthMiddlewareForTests(user.ID), server.UpdateSettings)

	requestBody, _ := json.Marshal(map[string]interface{}{
		"comment_permission": "nobody",
	})
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/users/settings", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLogin(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	server := setupTestServer(t)
	createTestUser(t, server.DB, "steven")

	r := gin.Default()
	r.POST("/api/v1/login", server.Login)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "steven@example.com",
		"password": "password123",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var responseBody map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
		t.Fatalf("Error unmarshalling response body: %v", err)
	}
	userData := responseBody["response"].(map[string]interface{})
	assert.NotEmpty(t, userData["token"])
	assert.Equal(t, "steven", userData["username"])
}

func TestLoginSuspendedUser(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	server := setupTestServer(t)
	createTestUser(t, server.DB, "ghost", func(u *models.User) {
		u.Status = models.UserStatusSuspended
	})

	r := gin.Default()
	r.POST("/api/v1/login", server.Login)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	server := setupTestServer(t)
	createTestUser(t, server.DB, "steven")

	r := gin.Default()
	r.POST("/api/v1/login", server.Login)

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "steven@example.com",
		"password": "wrongpassword",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
