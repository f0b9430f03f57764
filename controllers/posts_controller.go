package controllers

import (
	"errors"
	"net/http"

	"VibeShared/models"
	httpctx "VibeShared/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePost godoc
// @Summary      Create a post
// @Description  Create a post with a caption and optional media attachment
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Param        caption  formData  string  false  "Post caption"
// @Param        file     formData  file    false  "Media attachment (image or video)"
// @Success      201  {object}  SimpleMessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /posts [post]
// @Security     BearerAuth
func (server *Server) CreatePost(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	post := models.Post{
		AuthorID: requestorID,
		Caption:  c.PostForm("caption"),
	}

	if file, err := c.FormFile("file"); err == nil && file != nil {
		mediaPath, err := uploadMediaToS3(file, "PostMedia/")
		if err != nil {
			switch {
			case errors.Is(err, errUploadTooLarge):
				errList["Too_large"] = "File too large (<5MB)"
				c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "error": errList})
			case errors.Is(err, errUploadNotMedia):
				errList["Not_media"] = "Only images and videos are allowed"
				c.JSON(http.StatusBadRequest, gin.H{"status": http.StatusBadRequest, "error": errList})
			default:
				errList["Upload_error"] = "Failed to upload media"
				c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
			}
			return
		}
		post.MediaPath = mediaPath
	}

	post.Prepare()
	errorMessages := post.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	postCreated, err := post.SavePost(server.DB)
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	invalidateFeedCache(requestorID)

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": postToDTO(postCreated),
	})
}

// GetPost godoc
// @Summary      Get a post
// @Description  Get a single post; private or blocked content is rejected
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (server *Server) GetPost(c *gin.Context) {
	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	owner := models.User{}
	ownerRef, err := owner.FindUserByID(server.DB, post.AuthorID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	viewerID, hasViewer := optionalViewerID(c)
	allowed, err := canViewOwnerContent(server.DB, viewerID, hasViewer, ownerRef, httpctx.IsAdminRequest(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking visibility"})
		return
	}
	if !allowed {
		// Detail endpoints reject rather than degrade.
		respondVisibilityDenied(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": postToDTO(post)})
}

// GetUserPosts godoc
// @Summary      List a user's posts
// @Description  List posts by a user; hidden profiles return an empty list
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/posts [get]
func (server *Server) GetUserPosts(c *gin.Context) {
	target, err := resolveUserByIdentifier(server.DB, c.Param("id"))
	if err != nil {
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
		respondEmptyList(c)
		return
	}

	post := models.Post{}
	posts, err := post.FindUserPosts(server.DB, target.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching posts"})
		return
	}

	payload := make([]PostDTO, 0, len(*posts))
	for i := range *posts {
		payload = append(payload, postToDTO(&(*posts)[i]))
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": payload})
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Edit a post's caption; only the author may edit
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /posts/{id} [put]
// @Security     BearerAuth
func (server *Server) UpdatePost(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		errList["No_post"] = "Post not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	if post.AuthorID != requestorID {
		errList["Unauthorized"] = "You are not allowed to edit this post"
		c.JSON(http.StatusForbidden, gin.H{"status": http.StatusForbidden, "error": errList})
		return
	}

	requestBody := struct {
		Caption string `json:"caption"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errList})
		return
	}

	post.Caption = requestBody.Caption
	errorMessages := post.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	postUpdated, err := post.UpdatePost(server.DB)
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": postToDTO(postUpdated)})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Delete a post and its likes and comments; the author or an admin may delete
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  SimpleMessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
// @Security     BearerAuth
func (server *Server) DeletePost(c *gin.Context) {
	errList := map[string]string{}

	requestorID, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized, "error": errList})
		return
	}

	post, err := resolvePostByIdentifier(server.DB, c.Param("id"))
	if err != nil {
		errList["No_post"] = "Post not found"
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "error": errList})
		return
	}

	if post.AuthorID != requestorID && !httpctx.IsAdminRequest(c) {
		errList["Unauthorized"] = "You are not allowed to delete this post"
		c.JSON(http.StatusForbidden, gin.H{"status": http.StatusForbidden, "error": errList})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		like := models.Like{}
		if _, err := like.DeletePostLikes(tx, post.ID); err != nil {
			return err
		}
		comment := models.Comment{}
		if _, err := comment.DeletePostComments(tx, post.ID); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		_, err := post.DeletePost(tx, post.ID)
		return err
	})
	if err != nil {
		errList["Other_error"] = "Please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError, "error": errList})
		return
	}

	invalidateFeedCache(post.AuthorID)

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Post deleted"})
}
