package controllers

import (
	"log"
	"net/http"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikePost godoc
// @Summary      Like a post
// @Description  Like a post; liking an already-liked post is a no-op
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Success      201  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/like [post]
// @Security     BearerAuth
func (server *Server) LikePost(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post, owner, allowed, err := server.gatePostInteraction(c, requestorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error liking post"})
		return
	}
	if post == nil || !allowed {
		return
	}

	created := false
	err = server.DB.Transaction(func(tx *gorm.DB) error {
		like := models.Like{UserID: requestorID, PostID: post.ID}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error liking post"})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Post already liked"})
		return
	}

	if err := models.NotifyUser(server.DB, owner.ID, requestorID, models.NotificationTypeLike, &post.ID, nil); err != nil {
		log.Printf("like notification: %v", err)
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": "Post liked successfully"})
}

// UnlikePost godoc
// @Summary      Unlike a post
// @Description  Remove the authenticated user's like; unliking a not-liked post is a no-op
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/like [delete]
// @Security     BearerAuth
func (server *Server) UnlikePost(c *gin.Context) {
	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", requestorID, post.ID).
			Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unliking post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Post unliked successfully"})
}

// GetPostLikes godoc
// @Summary      List likes on a post
// @Description  List the users who liked a post
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/likes [get]
func (server *Server) GetPostLikes(c *gin.Context) {
	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	owner := models.User{}
	ownerRef, err := owner.FindUserByID(server.DB, post.AuthorID)
	if err != nil {
		respondEmptyList(c)
		return
	}

	viewerID, hasViewer := optionalViewerID(c)
	allowed, err := canViewOwnerContent(server.DB, viewerID, hasViewer, ownerRef, httpctx.IsAdminRequest(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking visibility"})
		return
	}
	if !allowed {
		respondEmptyList(c)
		return
	}

	like := models.Like{}
	likes, err := like.GetPostLikes(server.DB, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching likes"})
		return
	}

	payload := make([]LikeDTO, 0, len(*likes))
	for i := range *likes {
		payload = append(payload, likeToDTO(server.DB, (*likes)[i], post.PublicID))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// gatePostInteraction resolves a post and runs the full interaction
// gate for a mutation: block check first, then owner visibility. A nil
// post means the response has already been written.
func (server *Server) gatePostInteraction(c *gin.Context, requestorID uint) (*models.Post, *models.User, bool, error) {
	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, nil, false, nil
	}

	owner := models.User{}
	ownerRef, err := owner.FindUserByID(server.DB, post.AuthorID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, nil, false, nil
	}

	if rejected, err := rejectIfBlocked(c, server.DB, requestorID, ownerRef.ID); err != nil {
		return nil, nil, false, err
	} else if rejected {
		return post, ownerRef, false, nil
	}

	allowed, err := canViewOwnerContent(server.DB, requestorID, true, ownerRef, httpctx.IsAdminRequest(c))
	if err != nil {
		return nil, nil, false, err
	}
	if !allowed {
		respondVisibilityDenied(c)
		return post, ownerRef, false, nil
	}
	return post, ownerRef, true, nil
}
