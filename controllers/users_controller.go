package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"VibeShared/cache"
	"VibeShared/models"
	"VibeShared/security"
	"VibeShared/utils/formaterror"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateUser godoc
// @Summary      Register a user
// @Description  Create a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      201  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /users [post]
func (server *Server) CreateUser(c *gin.Context) {
	var user models.User

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	userCreated, err := user.SaveUser(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"errors": formattedError})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": userToDTO(userCreated),
	})
}

// GetUsers retrieves active users
func (server *Server) GetUsers(c *gin.Context) {
	user := models.User{}

	users, err := user.FindAllUsers(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No users found"})
		return
	}

	payload := make([]UserSummaryDTO, 0, len(*users))
	for i := range *users {
		payload = append(payload, userToSummaryDTO(&(*users)[i]))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// GetUser godoc
// @Summary      Get a profile
// @Description  Get a user's profile; hidden profiles return a limited summary
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (server *Server) GetUser(c *gin.Context) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil || !target.IsActive() {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	viewerID, hasViewer := optionalViewerID(c)
	allowed, err := canViewOwnerContent(server.DB, viewerID, hasViewer, target, httpctx.IsAdminRequest(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking visibility"})
		return
	}
	if !allowed {
		// The profile shell stays visible so the viewer can request to
		// follow; posts and relationship lists stay hidden.
		c.JSON(http.StatusOK, gin.H{
			"status": http.StatusOK,
			"response": gin.H{
				"id":              target.PublicID,
				"username":        target.Username,
				"avatar_path":     target.AvatarPath,
				"is_private":      target.IsPrivate,
				"followers_count": target.FollowersCount,
				"following_count": target.FollowingCount,
			},
		})
		return
	}

	if !hasViewer {
		cacheKey := "profile_summary:" + target.PublicID
		if cached, err := cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
			var dto UserDTO
			if json.Unmarshal([]byte(cached), &dto) == nil {
				c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": dto})
				return
			}
		}
		dto := userToDTO(target)
		if raw, err := json.Marshal(dto); err == nil {
			_ = cache.Set(context.Background(), cacheKey, raw, time.Minute)
		}
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": dto})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(target)})
}

// UpdateUser allows a user to update their email and password
func (server *Server) UpdateUser(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil || target.ID != requestorID {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	requestBody := struct {
		Email           string `json:"email"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		Bio             string `json:"bio"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	user := models.User{
		Email: requestBody.Email,
		Bio:   requestBody.Bio,
	}

	if requestBody.NewPassword != "" {
		if requestBody.CurrentPassword == "" {
			errList["Empty_current"] = "Please provide current password"
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
			return
		}
		if err := security.VerifyPassword(target.Password, requestBody.CurrentPassword); err != nil {
			errList["Password_mismatch"] = "The password is incorrect"
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
			return
		}
		user.Password = requestBody.NewPassword
	}

	user.Prepare()
	errorMessages := user.Validate("update")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	updatedUser, err := user.UpdateAUser(server.DB, requestorID)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": formattedError})
		return
	}

	invalidateProfileSummaryCache(updatedUser.PublicID)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(updatedUser)})
}

// UpdateSettings godoc
// @Summary      Update account settings
// @Description  Update privacy, comment permission and notification preferences
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /users/settings [put]
// @Security     BearerAuth
func (server *Server) UpdateSettings(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	current := models.User{}
	currentRef, err := current.FindUserByID(server.DB, requestorID)
	if err != nil {
		errList["No_user"] = "User not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	requestBody := struct {
		IsPrivate         *bool   `json:"is_private"`
		CommentPermission *string `json:"comment_permission"`
		NotifyLikes       *bool   `json:"notify_likes"`
		NotifyComments    *bool   `json:"notify_comments"`
		NotifyFollows     *bool   `json:"notify_follows"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	user := models.User{
		IsPrivate:         currentRef.IsPrivate,
		CommentPermission: currentRef.CommentPermission,
		NotifyLikes:       currentRef.NotifyLikes,
		NotifyComments:    currentRef.NotifyComments,
		NotifyFollows:     currentRef.NotifyFollows,
	}
	if requestBody.IsPrivate != nil {
		user.IsPrivate = *requestBody.IsPrivate
	}
	if requestBody.CommentPermission != nil {
		user.CommentPermission = *requestBody.CommentPermission
	}
	if requestBody.NotifyLikes != nil {
		user.NotifyLikes = requestBody.NotifyLikes
	}
	if requestBody.NotifyComments != nil {
		user.NotifyComments = requestBody.NotifyComments
	}
	if requestBody.NotifyFollows != nil {
		user.NotifyFollows = requestBody.NotifyFollows
	}

	errorMessages := user.Validate("settings")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	updatedUser, err := user.UpdateSettings(server.DB, requestorID)
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	invalidateProfileSummaryCache(updatedUser.PublicID)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(updatedUser)})
}

// UpdateAvatar allows a user to update their avatar image
func (server *Server) UpdateAvatar(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil || target.ID != requestorID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	}

	filePath, err := uploadMediaToS3(file, "UserProfilePics/")
	if err != nil {
		switch {
		case errors.Is(err, errUploadTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (<5MB)"})
		case errors.Is(err, errUploadNotMedia):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not an image"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		}
		return
	}

	user := models.User{AvatarPath: filePath}
	updatedUser, err := user.UpdateAUserAvatar(server.DB, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot save image, please try again later"})
		return
	}

	invalidateProfileSummaryCache(updatedUser.PublicID)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": userToDTO(updatedUser)})
}

// DeleteUser godoc
// @Summary      Delete an account
// @Description  Delete the authenticated user's account and all dependent records
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
// @Security     BearerAuth
func (server *Server) DeleteUser(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID != requestorID && !httpctx.IsAdminRequest(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	uid := target.ID
	err = server.DB.Transaction(func(tx *gorm.DB) error {
		// Withdraw counters for surviving posts before the likes and
		// comments rows go away.
		if err := tx.Exec(
			"UPDATE posts SET likes_count = CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END WHERE id IN (SELECT post_id FROM likes WHERE user_id = ?)",
			uid,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"UPDATE posts SET comments_count = CASE WHEN comments_count > sub.cnt THEN comments_count - sub.cnt ELSE 0 END FROM (SELECT post_id, COUNT(*) AS cnt FROM comments WHERE user_id = ? GROUP BY post_id) AS sub WHERE posts.id = sub.post_id",
			uid,
		).Error; err != nil {
			return err
		}

		like := models.Like{}
		if _, err := like.DeleteUserLikes(tx, uid); err != nil {
			return err
		}
		comment := models.Comment{}
		if _, err := comment.DeleteUserComments(tx, uid); err != nil {
			return err
		}

		post := models.Post{}
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", uid).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, pid := range postIDs {
			if _, err := like.DeletePostLikes(tx, pid); err != nil {
				return err
			}
			if _, err := comment.DeletePostComments(tx, pid); err != nil {
				return err
			}
		}
		if _, err := post.DeleteUserPosts(tx, uid); err != nil {
			return err
		}

		if err := removeUserFollowEdges(tx, uid); err != nil {
			return err
		}

		block := models.Block{}
		if _, err := block.DeleteUserBlocks(tx, uid); err != nil {
			return err
		}

		notification := models.Notification{}
		if _, err := notification.DeleteUserNotifications(tx, uid); err != nil {
			return err
		}
		if err := tx.Where("actor_id = ?", uid).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		user := models.User{}
		_, err := user.DeleteAUser(tx, uid)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
		return
	}

	invalidateProfileSummaryCache(target.PublicID)
	invalidateFeedCache(uid)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "User deleted"})
}

// SuspendUser godoc
// @Summary      Suspend a user (admin)
// @Description  Suspend an account; suspended owners disappear from visibility checks
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id}/suspend [post]
// @Security     BearerAuth
func (server *Server) SuspendUser(c *gin.Context) {
	server.setUserStatus(c, models.UserStatusSuspended, "User suspended")
}

// ReactivateUser godoc
// @Summary      Reactivate a user (admin)
// @Description  Reactivate a suspended account
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id}/reactivate [post]
// @Security     BearerAuth
func (server *Server) ReactivateUser(c *gin.Context) {
	server.setUserStatus(c, models.UserStatusActive, "User reactivated")
}

func (server *Server) setUserStatus(c *gin.Context, status, message string) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user := models.User{}
	if err := user.UpdateStatus(server.DB, target.ID, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
		return
	}

	invalidateProfileSummaryCache(target.PublicID)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": message})
}
